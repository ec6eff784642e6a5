package catalog

type priceEntry struct {
	name  string
	price int64
	unit  Unit
}

var priceList = []struct {
	category Category
	entries  []priceEntry
}{
	{Laundry, []priceEntry{
		{"Wash & fold", 69, UnitKG},
		{"Wash & iron", 99, UnitKG},
		{"Non wearables", 99, UnitKG},
		{"Express ~ 24 hours", 199, UnitKG},
		{"Steam iron", 69, UnitKG},
		{"Premium laundry", 149, UnitKG},
	}},
	{Men, []priceEntry{
		{"Shirt", 79, UnitPiece},
		{"T shirt", 79, UnitPiece},
		{"Trouser/Jeans", 79, UnitPiece},
		{"Kurta plain", 90, UnitPiece},
		{"Kurta medium", 125, UnitPiece},
		{"Kurta heavy", 149, UnitPiece},
		{"Coat / blazer", 249, UnitPiece},
		{"Coat / blazer heavy", 299, UnitPiece},
		{"Suit 2 piece", 299, UnitPiece},
		{"Suit 3 piece", 349, UnitPiece},
		{"Sherwani", 599, UnitPiece},
		{"Shorts", 49, UnitPiece},
		{"Sweater", 149, UnitPiece},
		{"Leather jacket", 499, UnitPiece},
		{"Nehru jacket", 149, UnitPiece},
		{"Dhoti", 149, UnitPiece},
		{"Pyjama", 79, UnitPiece},
		{"Sports Shoes", 249, UnitPiece},
		{"Premium shoes", 399, UnitPiece},
		{"Casual shoes", 299, UnitPiece},
		{"Sweat shirt", 149, UnitPiece},
		{"Silk shirt", 149, UnitPiece},
		{"Silk dhoti", 249, UnitPiece},
		{"Tie", 29, UnitPiece},
		{"Inner wear", 19, UnitPiece},
	}},
	{Women, []priceEntry{
		{"Kurti Plain", 89, UnitPiece},
		{"Kurti fancy", 149, UnitPiece},
		{"Dress small", 199, UnitPiece},
		{"Dress long", 299, UnitPiece},
		{"Anarkali suit", 299, UnitPiece},
		{"Top", 79, UnitPiece},
		{"Saree plain", 199, UnitPiece},
		{"Saree medium", 249, UnitPiece},
		{"Saree heavy", 349, UnitPiece},
		{"Lehanga", 349, UnitPiece},
		{"Lehanga bridal", 749, UnitPiece},
		{"Lehanga heavy", 999, UnitPiece},
		{"Blouse plain", 79, UnitPiece},
		{"Blouse fancy", 149, UnitPiece},
		{"Blouse work", 199, UnitPiece},
		{"Skirt", 99, UnitPiece},
		{"Salwar", 89, UnitPiece},
		{"Dupatta", 59, UnitPiece},
		{"Gown", 499, UnitPiece},
		{"Silk saree", 249, UnitPiece},
		{"Saree polishing", 199, UnitPiece},
		{"Petticoat", 69, UnitPiece},
		{"Chunni", 89, UnitPiece},
		{"Saree iron", 49, UnitPiece},
	}},
	{Woolen, []priceEntry{
		{"Blanket / quilt single", 299, UnitPiece},
		{"Blanket / quilt double", 349, UnitPiece},
		{"Blanket / quilt heavy", 399, UnitPiece},
		{"Blanket cover", 149, UnitPiece},
		{"Jacket", 249, UnitPiece},
		{"Jacket heavy", 299, UnitPiece},
		{"Sweater light", 99, UnitPiece},
		{"Sweater Medium", 149, UnitPiece},
		{"Sweater heavy", 199, UnitPiece},
		{"Overcoat medium", 299, UnitPiece},
		{"Overcoat long", 349, UnitPiece},
		{"Mufflar", 39, UnitPiece},
		{"Shawl", 149, UnitPiece},
		{"Socks", 29, UnitPiece},
		{"Cap", 39, UnitPiece},
		{"Hand gloves", 49, UnitPiece},
		{"Baby blanket", 149, UnitPiece},
		{"Woolen per kg", 149, UnitKG},
	}},
	{Household, []priceEntry{
		{"Rug / Carpet per sqft", 25, UnitSqft},
		{"Hand towel", 69, UnitPiece},
		{"Towel", 99, UnitPiece},
		{"Bedsheet single", 149, UnitPiece},
		{"Bedsheet double", 199, UnitPiece},
		{"Mat small", 59, UnitPiece},
		{"Mat big", 99, UnitPiece},
		{"Table mat", 49, UnitPiece},
		{"Cushion", 79, UnitPiece},
		{"Cushion cover", 49, UnitPiece},
		{"Pillow small", 99, UnitPiece},
		{"Pillow large", 149, UnitPiece},
		{"Pillow cover", 49, UnitPiece},
		{"Curtains (Single layer)", 299, UnitPiece},
		{"Curtains (Double layer)", 399, UnitPiece},
		{"Curtains Steam iron", 99, UnitPiece},
		{"Toy small", 99, UnitPiece},
		{"Toy medium", 249, UnitPiece},
		{"Toy large", 399, UnitPiece},
		{"Baby bed", 249, UnitPiece},
		{"Curtains heavy", 399, UnitPiece},
		{"Curtains Per Sqft", 10, UnitSqft},
		{"Bag small", 99, UnitPiece},
		{"Bagpack", 149, UnitPiece},
		{"Bag", 199, UnitPiece},
		{"Bed cover", 149, UnitPiece},
		{"Trolley bag", 299, UnitPiece},
		{"Apron", 49, UnitPiece},
	}},
}
