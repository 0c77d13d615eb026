package skills

// Category is a catalogue entry: a category and the skills rated within it.
type Category struct {
	Name   string
	Skills []string
}

// Catalogue is the fixed set of categories walked by the assessment wizard.
var Catalogue = []Category{
	{
		Name: "Technical Skills",
		Skills: []string{
			"Programming/Coding", "Data Analysis", "Web Development", "Mobile Development",
			"Database Management", "Cloud Computing", "Cybersecurity", "UI/UX Design",
		},
	},
	{
		Name: "Business Skills",
		Skills: []string{
			"Financial Analysis", "Business Strategy", "Marketing", "Sales",
			"Project Management", "Operations Management", "Entrepreneurship", "Market Research",
		},
	},
	{
		Name: "Communication Skills",
		Skills: []string{
			"Written Communication", "Public Speaking", "Presentation Skills", "Negotiation",
			"Active Listening", "Cross-cultural Communication", "Professional Writing", "Storytelling",
		},
	},
	{
		Name: "Analytical Skills",
		Skills: []string{
			"Problem Solving", "Critical Thinking", "Research", "Statistical Analysis",
			"Logical Reasoning", "Decision Making", "Pattern Recognition", "Strategic Planning",
		},
	},
	{
		Name: "Creative Skills",
		Skills: []string{
			"Graphic Design", "Content Creation", "Creative Writing", "Video Editing",
			"Photography", "Innovation", "Brainstorming", "Artistic Expression",
		},
	},
}

// Defaults builds a fresh inventory from the catalogue with every skill at DefaultLevel.
func Defaults() []Rating {
	ratings := make([]Rating, 0, len(Catalogue))
	for _, category := range Catalogue {
		// Catalogue names are unique, NewRating cannot fail here.
		rating, _ := NewRating(category.Name, category.Skills...)
		ratings = append(ratings, rating)
	}
	return ratings
}
