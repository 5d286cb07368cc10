package blogservice

// TotalLikes sums the like counts of the given blogs. An empty slice sums to
// zero. The input is never mutated.
func TotalLikes(blogs []Blog) int {
	var total int
	for i := range blogs {
		total += blogs[i].Likes
	}
	return total
}

// FavoriteBlog returns the blog with the greatest like count, scanning left to
// right. A later blog with an equal count does not displace the current
// favorite, so ties resolve to the earliest occurrence. Returns nil for an
// empty slice.
func FavoriteBlog(blogs []Blog) *Blog {
	var favorite *Blog
	for i := range blogs {
		if favorite == nil || blogs[i].Likes > favorite.Likes {
			favorite = &blogs[i]
		}
	}
	return favorite
}
