package domain

// Category is a support ticket category.
type Category string

const (
	CategoryTechnical      Category = "technical"
	CategoryBilling        Category = "billing"
	CategoryAccount        Category = "account"
	CategoryFeatureRequest Category = "feature_request"
	CategoryGeneralInquiry Category = "general_inquiry"
)

// FallbackCategory is assigned when no category keyword matches.
const FallbackCategory = CategoryGeneralInquiry

// CategoryDefinition pairs a category with the keywords that vote for it.
type CategoryDefinition struct {
	Category Category
	Keywords []string
}

// CategoryTable is ordered. Its order is the tie-break order: when several
// categories share the top score, the earliest entry wins.
var CategoryTable = []CategoryDefinition{
	{
		Category: CategoryTechnical,
		Keywords: []string{
			"error", "bug", "crash", "not working", "broken",
			"issue", "problem", "technical", "code", "system",
			"software", "hardware", "database", "server",
		},
	},
	{
		Category: CategoryBilling,
		Keywords: []string{
			"payment", "invoice", "charge", "billing", "refund",
			"subscription", "price", "cost", "fee", "credit card",
			"transaction", "paid", "money",
		},
	},
	{
		Category: CategoryAccount,
		Keywords: []string{
			"login", "password", "account", "access", "sign in",
			"username", "credential", "authentication", "profile",
			"settings", "email", "verification",
		},
	},
	{
		Category: CategoryFeatureRequest,
		Keywords: []string{
			"feature", "request", "suggestion", "improvement",
			"enhancement", "would like", "wish", "could you add",
			"new functionality", "upgrade",
		},
	},
	{
		Category: CategoryGeneralInquiry,
		Keywords: []string{
			"how to", "how do i", "question", "inquiry", "help",
			"information", "guide", "tutorial", "explain", "clarify",
		},
	},
}

// Categories returns every category in tie-break order.
func Categories() []Category {
	categories := make([]Category, len(CategoryTable))
	for i, def := range CategoryTable {
		categories[i] = def.Category
	}
	return categories
}

// String returns the category as a string.
func (c Category) String() string {
	return string(c)
}

// IsValid reports whether the category appears in CategoryTable.
func (c Category) IsValid() bool {
	for _, def := range CategoryTable {
		if def.Category == c {
			return true
		}
	}
	return false
}

// CategoryScores maps each category to its keyword hit count.
type CategoryScores map[Category]int

// NewCategoryScores returns scores with every category present at zero.
func NewCategoryScores() CategoryScores {
	scores := make(CategoryScores, len(CategoryTable))
	for _, def := range CategoryTable {
		scores[def.Category] = 0
	}
	return scores
}

// CategoryScore is a single category's hit count.
type CategoryScore struct {
	Category Category `json:"category"`
	Score    int      `json:"score"`
}

// Ordered returns the scores in tie-break order.
func (s CategoryScores) Ordered() []CategoryScore {
	ordered := make([]CategoryScore, 0, len(CategoryTable))
	for _, def := range CategoryTable {
		ordered = append(ordered, CategoryScore{Category: def.Category, Score: s[def.Category]})
	}
	return ordered
}

// CategoryResult is the category assessment of a ticket.
type CategoryResult struct {
	Category   Category       `json:"category"`
	Confidence int            `json:"confidence"`
	Scores     CategoryScores `json:"category_scores"`
}
