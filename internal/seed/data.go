package seed

type menuItemSeed struct {
	Name        string
	Price       string
	Description string
	Image       string
}

type restaurantSeed struct {
	Name    string
	Rating  float64
	Cuisine string
	Image   string
	Menu    []menuItemSeed
}

const unsplash = "https://images.unsplash.com/"

func restaurantSeeds() []restaurantSeed {
	return []restaurantSeed{
		{
			Name: "Burger King", Rating: 4.5, Cuisine: "Fast Food, Burgers",
			Image: unsplash + "photo-1571091718767-18b5b1457add?auto=format&fit=crop&q=80&w=800",
			Menu: []menuItemSeed{
				{"Whopper", "5.99", "The classic flame-grilled beef burger.", unsplash + "photo-1568901346375-23c9450c58cd?auto=format&fit=crop&q=80&w=400"},
				{"Cheeseburger", "2.99", "Simple and delicious cheese burger.", unsplash + "photo-1550547660-d9450f859349?auto=format&fit=crop&q=80&w=400"},
				{"Chicken Fries", "3.99", "Tasty chicken in french fries shape.", unsplash + "photo-1562967914-608f82629710?auto=format&fit=crop&q=80&w=400"},
			},
		},
		{
			Name: "Pizza Hut", Rating: 4.2, Cuisine: "Italian, Pizza",
			Image: unsplash + "photo-1513104890138-7c749659a591?auto=format&fit=crop&q=80&w=800",
			Menu: []menuItemSeed{
				{"Pepperoni Pizza", "12.99", "Classic pepperoni with double mozzarella.", unsplash + "photo-1628840042765-356cda07504e?auto=format&fit=crop&q=80&w=400"},
				{"Margherita Pizza", "10.99", "Fresh basil, tomato sauce and mozzarella.", unsplash + "photo-1574071318508-1cdbad80ad50?auto=format&fit=crop&q=80&w=400"},
				{"Garlic Bread", "4.99", "Buttery and garlicky bread sticks.", unsplash + "photo-1573140247632-f8fd74997d5c?auto=format&fit=crop&q=80&w=400"},
			},
		},
		{
			Name: "Sushi House", Rating: 4.8, Cuisine: "Japanese, Sushi",
			Image: unsplash + "photo-1579871494447-9811cf80d66c?auto=format&fit=crop&q=80&w=800",
			Menu: []menuItemSeed{
				{"Salmon Nigiri", "8.99", "Fresh salmon on top of seasoned rice.", unsplash + "photo-1583623025817-d180a2221d0a?auto=format&fit=crop&q=80&w=400"},
				{"California Roll", "7.99", "Crab, avocado, and cucumber roll.", unsplash + "photo-1579584425555-c3ce17fd4351?auto=format&fit=crop&q=80&w=400"},
				{"Miso Soup", "3.49", "Traditional Japanese soup.", unsplash + "photo-1547592166-23ac45744acd?auto=format&fit=crop&q=80&w=400"},
			},
		},
		{
			Name: "Taco Bell", Rating: 4.0, Cuisine: "Mexican, Tacos",
			Image: unsplash + "photo-1565299624946-b28f40a0ae38?auto=format&fit=crop&q=80&w=800",
			Menu: []menuItemSeed{
				{"Crunchy Taco", "1.99", "Crunchy corn shell with beef and cheese.", unsplash + "photo-1551504734-5ee1c4a1479b?auto=format&fit=crop&q=80&w=400"},
				{"Burrito", "5.49", "Large flour tortilla filled with beans and rice.", unsplash + "photo-1599974579688-8dbdd335c77f?auto=format&fit=crop&q=80&w=400"},
				{"Nachos", "4.99", "Crispy chips with cheese sauce.", unsplash + "photo-1513456852971-30c0b8199d4d?auto=format&fit=crop&q=80&w=400"},
			},
		},
		{
			Name: "Pasta Paradiso", Rating: 4.6, Cuisine: "Italian, Pasta",
			Image: unsplash + "photo-1551183053-bf91a1d81141?auto=format&fit=crop&q=80&w=800",
			Menu: []menuItemSeed{
				{"Spaghetti Carbonara", "13.99", "Creamy pasta with pancetta and egg.", unsplash + "photo-1612874742237-6526221588e3?auto=format&fit=crop&q=80&w=400"},
				{"Fettuccine Alfredo", "12.49", "Rich butter and parmesan sauce.", unsplash + "photo-1645112481338-3162efbd07a8?auto=format&fit=crop&q=80&w=400"},
				{"Lasagna", "14.99", "Layered pasta with meat sauce and cheese.", unsplash + "photo-1619895092538-1283417871fa?auto=format&fit=crop&q=80&w=400"},
			},
		},
		{
			Name: "Healthy Greens", Rating: 4.7, Cuisine: "Salads, Healthy",
			Image: unsplash + "photo-1512621776951-a57141f2eefd?auto=format&fit=crop&q=80&w=800",
			Menu: []menuItemSeed{
				{"Caesar Salad", "9.99", "Romaine lettuce with caesar dressing.", unsplash + "photo-1550304943-4f24f54ddde9?auto=format&fit=crop&q=80&w=400"},
				{"Quinoa Bowl", "11.49", "Healthy quinoa with roasted vegetables.", unsplash + "photo-1543339308-43e59d6b73a6?auto=format&fit=crop&q=80&w=400"},
				{"Fruit Salad", "6.99", "Fresh seasonal fruits.", unsplash + "photo-1564093490129-742709ee93dc?auto=format&fit=crop&q=80&w=400"},
			},
		},
	}
}
