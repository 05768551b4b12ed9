package catalog

// DefaultCategories is the built-in treatment category set for fresh
// installations. Prices are defaults only; every cost line created from a
// category remains independently editable.
var DefaultCategories = []Category{
	{Name: "Consultation", Description: "General dental consultation and examination", BaseCost: 500},
	{Name: "Scaling & Polishing", Description: "Full mouth scaling and polishing", BaseCost: 1200},
	{Name: "Composite Filling", Description: "Tooth-colored composite restoration", BaseCost: 1500},
	{Name: "Amalgam Filling", Description: "Silver amalgam restoration", BaseCost: 1000},
	{Name: "Root Canal Treatment", Description: "Single-visit or multi-visit endodontic treatment", BaseCost: 6000},
	{Name: "Tooth Extraction", Description: "Simple extraction under local anesthesia", BaseCost: 1000},
	{Name: "Surgical Extraction", Description: "Surgical removal of impacted tooth", BaseCost: 4000},
	{Name: "Crown (Ceramic)", Description: "Full ceramic crown", BaseCost: 8000},
	{Name: "Crown (Metal)", Description: "Porcelain fused to metal crown", BaseCost: 5000},
	{Name: "Dental Implant", Description: "Single implant placement with crown", BaseCost: 30000},
	{Name: "Orthodontic Braces", Description: "Fixed orthodontic treatment per arch", BaseCost: 25000},
	{Name: "Teeth Whitening", Description: "In-office bleaching", BaseCost: 7000},
	{Name: "Dentures (Partial)", Description: "Removable partial denture", BaseCost: 9000},
	{Name: "X-Ray (IOPA)", Description: "Intraoral periapical radiograph", BaseCost: 250},
}
