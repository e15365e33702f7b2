package trace_graph

func getSpansOfTraceQuery(traceID string) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{
				"trace_id": traceID,
			},
		},
		"sort": []map[string]interface{}{
			{
				"start_time": map[string]interface{}{
					"order": "asc",
				},
			},
		},
	}
}
