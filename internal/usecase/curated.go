package usecase

// curatedProduct is a hand-checked entry for one of the showcase products
type curatedProduct struct {
	ImageURL    string
	Description string
	EcoScore    int
}

// curatedProducts is keyed by exact product name. An entry overrides every
// network source and also provides the description of last resort.
var curatedProducts = map[string]curatedProduct{
	"Eco-Friendly Toothbrush": {
		ImageURL:    "https://images.earthhero.com/wp-content/uploads/2022/08/Brush-with-Bamboo-Adult-Toothbrush-1.jpg",
		Description: "A sustainable toothbrush made from bamboo, fully compostable and eco-friendly. Helps reduce plastic waste in your daily routine.",
		EcoScore:    90,
	},
	"Reusable Shopping Bag": {
		ImageURL:    "https://images.earthhero.com/wp-content/uploads/2021/05/ChicoBag-Original-Reusable-Shopping-Bag-EarthHero.jpg",
		Description: "A durable, reusable shopping bag made from recycled materials. Perfect for groceries and reducing single-use plastic.",
		EcoScore:    85,
	},
	"Bamboo Cutlery Set": {
		ImageURL:    "https://images.earthhero.com/wp-content/uploads/2018/11/Bamboo-Travel-Utensil-Set-To-Go-Ware-EarthHero-1.jpg",
		Description: "A portable cutlery set crafted from renewable bamboo. Ideal for zero-waste living and eating on the go.",
		EcoScore:    88,
	},
	"Solar Powered Charger": {
		ImageURL:    "https://images.earthhero.com/wp-content/uploads/2019/04/GoSun-Solar-Charger-EarthHero-1.jpg",
		Description: "Charge your devices anywhere using clean solar energy. Great for travel, camping, and outdoor adventures.",
		EcoScore:    92,
	},
	"Compostable Trash Bags": {
		ImageURL:    "https://images.earthhero.com/wp-content/uploads/2018/05/UNNI-Compostable-Bags-EarthHero-1.jpg",
		Description: "Trash bags that break down in compost, reducing landfill waste and supporting a greener planet.",
		EcoScore:    95,
	},
}

// noDescription is used when neither a source nor the curated table has text
const noDescription = "No description available."

func lookupCurated(name string) (curatedProduct, bool) {
	p, ok := curatedProducts[name]
	return p, ok
}

// fallbackDescription is the curated text for name, or noDescription
func fallbackDescription(name string) string {
	if p, ok := lookupCurated(name); ok {
		return p.Description
	}
	return noDescription
}
