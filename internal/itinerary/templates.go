package itinerary

// TemplateItem is one suggested activity.
type TemplateItem struct {
	Title string
	Time  string
	Notes string
}

// Template is a suggested itinerary for trips that have no activities yet.
type Template struct {
	City string // empty for the default template
	Days [][]TemplateItem
}

// templates are matched in order against the display city.
var templates = []Template{
	{
		City: "Paris",
		Days: [][]TemplateItem{
			{
				{"Eiffel Tower", "09:00 AM", "Start your journey at the iconic Eiffel Tower with panoramic city views."},
				{"Louvre Museum", "01:00 PM", "Explore world-famous art including the Mona Lisa."},
				{"Seine River Cruise", "07:00 PM", "Romantic dinner cruise with spectacular city lights."},
			},
			{
				{"Notre-Dame Cathedral", "10:00 AM", "Visit the historic Gothic masterpiece."},
				{"Latin Quarter", "02:00 PM", "Wander through charming streets and cafes."},
			},
		},
	},
	{
		City: "Tokyo",
		Days: [][]TemplateItem{
			{
				{"Senso-ji Temple", "09:00 AM", "Experience ancient Japanese culture in Asakusa."},
				{"Shibuya Crossing", "01:00 PM", "Witness the world's busiest intersection."},
				{"Tokyo Skytree", "07:00 PM", "Breathtaking views from Japan's tallest tower."},
			},
			{
				{"Tsukiji Fish Market", "06:00 AM", "Fresh sushi breakfast experience."},
				{"Harajuku", "02:00 PM", "Explore trendy fashion and youth culture."},
			},
		},
	},
}

var defaultTemplate = Template{
	Days: [][]TemplateItem{
		{
			{"City Center Exploration", "09:00 AM", "Discover the heart of the city and its main attractions."},
			{"Local Cuisine Experience", "01:00 PM", "Taste authentic local dishes at popular restaurants."},
			{"Evening Views", "07:00 PM", "Enjoy sunset views from the best vantage point."},
		},
		{
			{"Cultural Site Visit", "10:00 AM", "Immerse yourself in local history and culture."},
			{"Shopping District", "02:00 PM", "Browse local markets and shops for souvenirs."},
		},
	},
}

// TemplateFor picks the first template whose city occurs in city
// (case-insensitive), falling back to the default.
func TemplateFor(city string) Template {
	for _, tpl := range templates {
		if containsFold(city, tpl.City) {
			return tpl
		}
	}
	return defaultTemplate
}
