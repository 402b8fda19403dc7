// File: internal/category/data.go
package category

// categories is the directory taxonomy. Provider records store Name, filters use ID.
var categories = []Category{
	{
		ID:          "home-services",
		Name:        "Home Services",
		Icon:        "Home",
		Description: "Find trusted electricians, plumbers, carpenters, and painters for all your home needs.",
	},
	{
		ID:          "tutors-education",
		Name:        "Tutors & Education",
		Icon:        "BookOpen",
		Description: "Connect with experienced tutors and coaching classes for academic excellence.",
	},
	{
		ID:          "automobile-services",
		Name:        "Automobile",
		Icon:        "Car",
		Description: "Reliable mechanics for car and bike repairs, servicing, and washing.",
	},
	{
		ID:          "food-services",
		Name:        "Food & Catering",
		Icon:        "UtensilsCrossed",
		Description: "Discover local tiffin services, home chefs, and professional caterers.",
	},
	{
		ID:          "health-wellness",
		Name:        "Health & Wellness",
		Icon:        "HeartPulse",
		Description: "Access local doctors, gyms, yoga instructors, and wellness experts.",
	},
	{
		ID:          "movers-packers",
		Name:        "Movers & Packers",
		Icon:        "Truck",
		Description: "Get professional and hassle-free services for your home or office relocation.",
	},
	{
		ID:          "beauty-salon",
		Name:        "Beauty & Salon",
		Icon:        "Sparkles",
		Description: "Pamper yourself with services from local salons, spas, and makeup artists.",
	},
	{
		ID:          "events-weddings",
		Name:        "Events & Weddings",
		Icon:        "PartyPopper",
		Description: "Find the best planners, photographers, and decorators for your special occasions.",
	},
	{
		ID:          "election-services",
		Name:        "Election Services",
		Icon:        "Vote",
		Description: "Find providers for election-related equipment, materials, and logistical support.",
	},
	{
		ID:          "appliance-repair",
		Name:        "Appliance Repair",
		Icon:        "Wrench",
		Description: "Expert repair for your AC, fridge, washing machine, and other home appliances.",
	},
	{
		ID:          "legal-services",
		Name:        "Legal Services",
		Icon:        "Gavel",
		Description: "Consult with local lawyers, notaries, and legal advisors for your needs.",
	},
	{
		ID:          "pet-services",
		Name:        "Pet Services",
		Icon:        "PawPrint",
		Description: "Find veterinarians, groomers, and pet sitters for your furry friends.",
	},
	{
		ID:          "it-computer-repair",
		Name:        "IT & Computer Repair",
		Icon:        "Laptop",
		Description: "Get help with your laptop, desktop, and other IT-related issues.",
	},
	{
		ID:          "real-estate",
		Name:        "Real Estate",
		Icon:        "KeyRound",
		Description: "Connect with real estate agents and brokers for buying, selling, or renting property.",
	},
}
