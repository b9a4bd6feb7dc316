package main

import "github.com/karan399/milkman/internal/client/cart"

// catalog is the menu offered by the CLI shop.
var catalog = []cart.Product{
	{ID: 1, Name: "Besan Ladoo", Description: "Roasted gram flour, ghee and sugar with cardamom.", Price: 260, Category: "Traditional", Unit: "per Kg"},
	{ID: 2, Name: "Bundi Ladoo", Description: "Fried boondi soaked in sugar syrup.", Price: 240, Category: "Traditional", Unit: "per Kg"},
	{ID: 3, Name: "Jodhpuri Ladoo", Description: "Boondi, pure ghee and dry fruits.", Price: 300, Category: "Traditional", Unit: "per Kg"},
	{ID: 4, Name: "Milk Cake", Description: "Slow-cooked milk with a light caramel taste.", Price: 540, Category: "Traditional", Unit: "per Kg"},
	{ID: 5, Name: "Barfi", Description: "Milk sweet topped with nuts or silver leaf.", Price: 480, Category: "Traditional", Unit: "per Kg"},
	{ID: 6, Name: "Doda Barfi", Description: "Punjabi barfi with milk, ghee and nuts.", Price: 460, Category: "Traditional", Unit: "per Kg"},
	{ID: 7, Name: "Rewari Barfi", Description: "Barfi with crunchy sesame seeds.", Price: 450, Category: "Traditional", Unit: "per Kg"},
	{ID: 8, Name: "Kaju Katli", Description: "Cashew paste diamonds with silver leaf.", Price: 950, Category: "Traditional", Unit: "per Kg"},
	{ID: 9, Name: "Cham Cham", Description: "Chhena sweet stuffed with mawa in syrup.", Price: 480, Category: "Traditional", Unit: "per Kg"},
	{ID: 10, Name: "Kalakand", Description: "Grainy milk sweet with cardamom.", Price: 580, Category: "Traditional", Unit: "per Kg"},
	{ID: 11, Name: "Rasgulla", Description: "Chhena balls in light sugar syrup.", Price: 300, Category: "Traditional", Unit: "per Kg"},
	{ID: 12, Name: "Sponch", Description: "Fluffy sponge sweet soaked in syrup.", Price: 25, Category: "Traditional", Unit: "per piece"},
	{ID: 13, Name: "Rasmalai", Description: "Paneer discs in saffron milk.", Price: 30, Category: "Traditional", Unit: "per piece"},
	{ID: 14, Name: "Gulab Jamun", Description: "Milk solids fried and soaked in rose syrup.", Price: 350, Category: "Traditional", Unit: "per Kg"},

	{ID: 19, Name: "Cow milk", Description: "Fresh cow's milk for everyday use.", Price: 75, Category: "Dairy", Unit: "per liter"},
	{ID: 20, Name: "Buffalo Milk", Description: "Thick, creamy buffalo milk.", Price: 80, Category: "Dairy", Unit: "per liter"},
	{ID: 21, Name: "Amul Cream", Description: "Fresh cream for curries and desserts.", Category: "Dairy", Unit: "per packet", MRP: true},
	{ID: 22, Name: "Butter", Description: "Soft, creamy butter.", Category: "Dairy", Unit: "per packet", MRP: true},
	{ID: 23, Name: "Desi Ghee", Description: "Pure desi ghee.", Price: 1400, Category: "Dairy", Unit: "per liter"},
	{ID: 24, Name: "Nuni Ghee", Description: "Homemade-style ghee with a natural aroma.", Price: 1000, Category: "Dairy", Unit: "per Kg"},
	{ID: 25, Name: "Dahi", Description: "Thick, fresh dahi.", Price: 100, Category: "Dairy", Unit: "per liter"},
	{ID: 26, Name: "Butter Milk", Description: "Light and refreshing.", Price: 30, Category: "Dairy", Unit: "per liter"},
	{ID: 27, Name: "Khoya", Description: "Rich khoya for mithai at home.", Price: 480, Category: "Dairy", Unit: "per Kg"},
	{ID: 28, Name: "Paneer", Description: "Soft, fresh paneer.", Price: 350, Category: "Dairy", Unit: "per Kg"},
	{ID: 29, Name: "Chaap", Description: "Protein-packed chaap.", Price: 80, Category: "Dairy", Unit: "per packet"},
	{ID: 30, Name: "Peas", Description: "Sweet, fresh peas.", Price: 160, Category: "Dairy", Unit: "per Kg"},
}

// categories lists menu sections in display order.
var categories = []string{"Traditional", "Dairy"}

func findProduct(id int) (cart.Product, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return cart.Product{}, false
}
