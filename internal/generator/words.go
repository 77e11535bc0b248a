package generator

// DefaultWords is a small mixed-length vocabulary for sample text.
var DefaultWords = []string{
	"the", "a", "cat", "dog", "sun", "tree", "road", "house", "river", "light",
	"walked", "jumped", "looked", "found", "made", "took", "gave", "kept",
	"slowly", "quickly", "never", "always", "often", "after", "before",
	"little", "table", "people", "water", "morning", "garden", "window",
	"beautiful", "important", "different", "family", "another", "evening",
	"yesterday", "understand", "remember", "together", "everything",
	"information", "education", "community", "particular", "opportunity",
	"individual", "environment", "relationship", "organization",
	"and", "but", "with", "from", "into", "over", "under", "near",
	"green", "quiet", "bright", "heavy", "simple", "careful", "ordinary",
}
