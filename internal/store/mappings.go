package store

// indexMappings returns the explicit field-type mapping for each collection
// index: keyword for exact-match fields, analyzed text for searchable prose,
// date for timestamps. Opaque alert query payloads are stored unindexed.
func indexMappings(collection string) map[string]any {
	var properties map[string]any

	switch collection {
	case CollectionCases:
		properties = map[string]any{
			"id":                map[string]any{"type": "keyword"},
			"title":             map[string]any{"type": "text"},
			"description":       map[string]any{"type": "text"},
			"status":            map[string]any{"type": "keyword"},
			"priority":          map[string]any{"type": "keyword"},
			"tags":              map[string]any{"type": "keyword"},
			"assigned_to":       map[string]any{"type": "keyword"},
			"assigned_to_name":  map[string]any{"type": "keyword"},
			"created_by":        map[string]any{"type": "keyword"},
			"created_by_name":   map[string]any{"type": "keyword"},
			"created_at":        map[string]any{"type": "date"},
			"updated_at":        map[string]any{"type": "date"},
			"closed_at":         map[string]any{"type": "date"},
			"comments_count":    map[string]any{"type": "integer"},
			"attachments_count": map[string]any{"type": "integer"},
			"alert_id":          map[string]any{"type": "keyword"},
			"alert_query":       map[string]any{"type": "object", "enabled": false},
		}
	case CollectionComments:
		properties = map[string]any{
			"id":           map[string]any{"type": "keyword"},
			"case_id":      map[string]any{"type": "keyword"},
			"author":       map[string]any{"type": "keyword"},
			"author_name":  map[string]any{"type": "keyword"},
			"content":      map[string]any{"type": "text"},
			"comment_type": map[string]any{"type": "keyword"},
			"created_at":   map[string]any{"type": "date"},
			"updated_at":   map[string]any{"type": "date"},
		}
	case CollectionFiles:
		properties = map[string]any{
			"id":                map[string]any{"type": "keyword"},
			"case_id":           map[string]any{"type": "keyword"},
			"filename":          map[string]any{"type": "keyword"},
			"original_filename": map[string]any{"type": "keyword"},
			"file_size":         map[string]any{"type": "long"},
			"mime_type":         map[string]any{"type": "keyword"},
			"uploaded_by":       map[string]any{"type": "keyword"},
			"uploaded_at":       map[string]any{"type": "date"},
		}
	case CollectionUsers:
		properties = map[string]any{
			"id":         map[string]any{"type": "keyword"},
			"username":   map[string]any{"type": "keyword"},
			"email":      map[string]any{"type": "keyword"},
			"full_name":  map[string]any{"type": "text"},
			"created_at": map[string]any{"type": "date"},
		}
	case CollectionAlerts:
		properties = map[string]any{
			"id":               map[string]any{"type": "keyword"},
			"title":            map[string]any{"type": "text"},
			"description":      map[string]any{"type": "text"},
			"severity":         map[string]any{"type": "keyword"},
			"status":           map[string]any{"type": "keyword"},
			"monitor_id":       map[string]any{"type": "keyword"},
			"trigger_id":       map[string]any{"type": "keyword"},
			"query":            map[string]any{"type": "object", "enabled": false},
			"visualization_id": map[string]any{"type": "keyword"},
			"case_id":          map[string]any{"type": "keyword"},
			"created_at":       map[string]any{"type": "date"},
			"acknowledged_at":  map[string]any{"type": "date"},
			"completed_at":     map[string]any{"type": "date"},
		}
	default:
		properties = map[string]any{
			"id": map[string]any{"type": "keyword"},
		}
	}

	return map[string]any{
		"mappings": map[string]any{
			"properties": properties,
		},
	}
}
