package content

// Link annotates a date-descending post list with previous/next refs.
func Link(posts []Post) []PostEdge {
	edges := make([]PostEdge, len(posts))
	for i, p := range posts {
		edges[i].Post = p
		if i > 0 {
			edges[i].Previous = &PostRef{ID: posts[i-1].ID}
		}
		if i < len(posts)-1 {
			edges[i].Next = &PostRef{ID: posts[i+1].ID}
		}
	}
	return edges
}
