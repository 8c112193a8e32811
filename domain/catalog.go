package domain

type Category string

const (
	Physical      Category = "physical"
	Sensory       Category = "sensory"
	Mental        Category = "mental"
	Communication Category = "communication"
	Schedule      Category = "schedule"
	Remote        Category = "remote"
)

// CategoryInfo is one compiled-in accommodation category with its ordered
// option labels.
type CategoryInfo struct {
	Key         Category `json:"key"`
	Title       string   `json:"title"`
	Icon        string   `json:"icon"`
	Description string   `json:"description"`
	Options     []string `json:"options"`
}

var catalog = []CategoryInfo{
	{
		Key:         Physical,
		Title:       "Physical Accessibility",
		Icon:        "accessibility",
		Description: "Accommodations for mobility, strength, and stamina-related needs.",
		Options: []string{
			"Wheelchair access",
			"Accessible restroom",
			"Ergonomic workspace",
			"Elevator access",
			"Adjustable desk height",
		},
	},
	{
		Key:         Sensory,
		Title:       "Sensory Environment",
		Icon:        "hearing",
		Description: "Considerations for sensory processing and sensitivities.",
		Options: []string{
			"Quiet workspace",
			"Noise-canceling headphones",
			"Natural lighting",
			"Low-stimulation environment",
			"Scent-free policy",
		},
	},
	{
		Key:         Mental,
		Title:       "Mental Health & Neurodivergence",
		Icon:        "psychology",
		Description: "Supports for focus, anxiety, or cognitive processing.",
		Options: []string{
			"Mental health breaks",
			"Flexible deadlines",
			"Clear written instructions",
			"Minimal supervision",
			"Regular feedback sessions",
		},
	},
	{
		Key:         Communication,
		Title:       "Communication Preferences",
		Icon:        "chat",
		Description: "Supports for how you interact and receive information.",
		Options: []string{
			"Written over verbal instructions",
			"Alternative communication tools",
			"Captioning for meetings",
			"Visual aids",
			"Time to process responses",
		},
	},
	{
		Key:         Schedule,
		Title:       "Work Schedule",
		Icon:        "schedule",
		Description: "Timing flexibility and scheduling accommodations.",
		Options: []string{
			"Flexible hours",
			"Reduced hours",
			"Breaks as needed",
			"Start/end time flexibility",
			"Split shifts",
		},
	},
	{
		Key:         Remote,
		Title:       "Remote Work",
		Icon:        "laptop",
		Description: "Remote or hybrid work options.",
		Options: []string{
			"Remote work full-time",
			"Hybrid work options",
			"Virtual meetings only",
			"Work-from-home tech support",
			"Asynchronous communication",
		},
	},
}

// Catalog returns a copy of the six categories in display order.
func Catalog() []CategoryInfo {
	out := make([]CategoryInfo, len(catalog))
	for i, info := range catalog {
		out[i] = info.clone()
	}
	return out
}

func Categories() []Category {
	keys := make([]Category, len(catalog))
	for i, info := range catalog {
		keys[i] = info.Key
	}
	return keys
}

func LookupCategory(category Category) (CategoryInfo, bool) {
	for _, info := range catalog {
		if info.Key == category {
			return info.clone(), true
		}
	}
	return CategoryInfo{}, false
}

func (c Category) Valid() bool {
	_, ok := LookupCategory(c)
	return ok
}

// HasOption reports whether label is one of the category's catalog options.
func (c Category) HasOption(label string) bool {
	for _, info := range catalog {
		if info.Key != c {
			continue
		}
		for _, option := range info.Options {
			if option == label {
				return true
			}
		}
	}
	return false
}

func (info CategoryInfo) clone() CategoryInfo {
	info.Options = append([]string(nil), info.Options...)
	return info
}
