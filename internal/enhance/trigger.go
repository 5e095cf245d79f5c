package enhance

// ReviewThreshold is the number of accumulated reviews that makes a recipe
// eligible for an AI rewrite.
const ReviewThreshold = 3

// ShouldRewrite reports whether a recipe with the given review counter is
// due for a rewrite. Callers own this check: Rewrite itself runs
// unconditionally when invoked, so a below-threshold call simply rewrites
// early.
func ShouldRewrite(reviewCounter int) bool {
	return reviewCounter >= ReviewThreshold
}
