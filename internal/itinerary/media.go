package itinerary

type imageRule struct {
	keyword string
	url     string
}

// Lookup order matters: the first keyword found wins.
var cityImages = []imageRule{
	{"Paris", "https://images.unsplash.com/photo-1502602898657-3e91760cbb34?w=1200&q=80"},
	{"Tokyo", "https://images.unsplash.com/photo-1503899036084-c55cdd92da26?w=1200&q=80"},
	{"New York", "https://images.unsplash.com/photo-1496442226666-8d4a0e62e6e9?w=1200&q=80"},
	{"London", "https://images.unsplash.com/photo-1513635269975-59663e0ac1ad?w=1200&q=80"},
	{"Dubai", "https://images.unsplash.com/photo-1512453979798-5ea932a23518?w=1200&q=80"},
	{"Rome", "https://images.unsplash.com/photo-1552832230-c0197dd311b5?w=1200&q=80"},
	{"Barcelona", "https://images.unsplash.com/photo-1511527661048-7fe73d85e9a4?w=1200&q=80"},
	{"Amsterdam", "https://images.unsplash.com/photo-1534351590666-13e3e96b5017?w=1200&q=80"},
	{"Sydney", "https://images.unsplash.com/photo-1506973035872-a4ec16b8e8d9?w=1200&q=80"},
}

const defaultCityImage = "https://images.unsplash.com/photo-1469854523086-cc02fe5d8800?w=1200&q=80"

var activityImages = []imageRule{
	{"museum", "https://images.unsplash.com/photo-1554907984-15263bfd63bd?w=800&q=80"},
	{"restaurant", "https://images.unsplash.com/photo-1517248135467-4c7edcad34c4?w=800&q=80"},
	{"park", "https://images.unsplash.com/photo-1466692476868-aef1dfb1e735?w=800&q=80"},
	{"shopping", "https://images.unsplash.com/photo-1441986300917-64674bd600d8?w=800&q=80"},
	{"landmark", "https://images.unsplash.com/photo-1471623320832-752e8bbf8413?w=800&q=80"},
	{"beach", "https://images.unsplash.com/photo-1507525428034-b723cf961d3e?w=800&q=80"},
	{"food", "https://images.unsplash.com/photo-1504674900247-0877df9cc836?w=800&q=80"},
}

const defaultActivityImage = "https://images.unsplash.com/photo-1488646953014-85cb44e25828?w=800&q=80"

// CityImage returns a cover photo URL for a city name.
func CityImage(city string) string {
	return lookupImage(cityImages, city, defaultCityImage)
}

// ActivityImage returns a photo URL for an activity title.
func ActivityImage(title string) string {
	return lookupImage(activityImages, title, defaultActivityImage)
}

func lookupImage(rules []imageRule, s, fallback string) string {
	for _, r := range rules {
		if containsFold(s, r.keyword) {
			return r.url
		}
	}
	return fallback
}

// Plan is one accommodation option in the comparison view.
type Plan struct {
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
}

// Plans returns the Budget, Standard and Luxury options for a city.
func Plans(city string) []Plan {
	return []Plan{
		{
			Type:        "Budget",
			Name:        "The " + city + " Backpacker Hostel",
			Price:       "$500",
			Image:       "https://images.unsplash.com/photo-1555854877-bab0e564b8d5?w=800&q=80",
			Description: "Shared dorms, communal kitchen, perfect for solo travelers",
			Features:    []string{"Free WiFi", "Shared Kitchen", "Common Areas"},
		},
		{
			Type:        "Standard",
			Name:        "Novotel " + city + " Central",
			Price:       "$1,500",
			Image:       "https://images.unsplash.com/photo-1566073771259-6a8506099945?w=800&q=80",
			Description: "Comfortable rooms, great location, business amenities",
			Features:    []string{"Private Room", "Breakfast Included", "Pool & Gym"},
		},
		{
			Type:        "Luxury",
			Name:        "The Grand " + city + " Palace",
			Price:       "$4,000",
			Image:       "https://images.unsplash.com/photo-1582719508461-905c673771fd?w=800&q=80",
			Description: "Five-star excellence, spa, rooftop dining, concierge",
			Features:    []string{"Suite", "Spa Access", "Fine Dining", "Butler Service"},
		},
	}
}
