package store

import "storefront-service/internal/models"

// DemoCatalog is loaded into an empty database when seeding is enabled
func DemoCatalog() []models.Product {
	return []models.Product{
		{ID: 1, Name: "Wireless Headphones", Price: 2499, Category: "Electronics",
			Description: "Over-ear noise cancelling headphones with 30 hour battery life.",
			Image:       "https://images.unsplash.com/photo-1505740420928-5e560c06d30e"},
		{ID: 2, Name: "Smart Watch", Price: 4999, Category: "Electronics",
			Description: "Fitness tracking, heart rate monitor and notifications on your wrist.",
			Image:       "https://images.unsplash.com/photo-1523275335684-37898b6baf30"},
		{ID: 3, Name: "Leather Backpack", Price: 3299, Category: "Accessories",
			Description: "Handcrafted leather backpack with a padded laptop sleeve.",
			Image:       "https://images.unsplash.com/photo-1548036328-c9fa89d128fa"},
		{ID: 4, Name: "Running Shoes", Price: 2999, Category: "Footwear",
			Description: "Lightweight running shoes with breathable mesh upper.",
			Image:       "https://images.unsplash.com/photo-1542291026-7eec264c27ff"},
		{ID: 5, Name: "Bluetooth Speaker", Price: 1799, Category: "Electronics",
			Description: "Portable waterproof speaker with deep bass.",
			Image:       "https://images.unsplash.com/photo-1608043152269-423dbba4e7e1"},
		{ID: 6, Name: "Aviator Sunglasses", Price: 1299, Category: "Accessories",
			Description: "Polarized lenses with UV400 protection.",
			Image:       "https://images.unsplash.com/photo-1511499767150-a48a237f0083"},
		{ID: 7, Name: "Canvas Sneakers", Price: 1599, Category: "Footwear",
			Description: "Classic low-top sneakers for everyday wear.",
			Image:       "https://images.unsplash.com/photo-1525966222134-fcfa99b8ae77"},
		{ID: 8, Name: "Mechanical Keyboard", Price: 3899, Category: "Electronics",
			Description: "Tactile switches, RGB backlight and aluminium frame.",
			Image:       "https://images.unsplash.com/photo-1587829741301-dc798b83add3"},
		{ID: 9, Name: "Minimalist Wallet", Price: 799, Category: "Accessories",
			Description: "Slim RFID-blocking wallet that holds up to eight cards.",
			Image:       "https://images.unsplash.com/photo-1627123424574-724758594e93"},
		{ID: 10, Name: "Hiking Boots", Price: 4499, Category: "Footwear",
			Description: "Waterproof boots with ankle support for rough trails.",
			Image:       "https://images.unsplash.com/photo-1520639888713-7851133b1ed0"},
		{ID: 11, Name: "Ceramic Coffee Mug", Price: 499, Category: "Home",
			Description: "Stoneware mug, dishwasher and microwave safe.",
			Image:       "https://images.unsplash.com/photo-1514228742587-6b1558fcca3d"},
		{ID: 12, Name: "Desk Lamp", Price: 1999, Category: "Home",
			Description: "Dimmable LED lamp with adjustable arm.",
			Image:       "https://images.unsplash.com/photo-1507473885765-e6ed057f782c"},
	}
}
