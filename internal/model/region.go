package model

// Region is a county of Romania as listed by the nomenclature publisher.
// The ids match the county codes used in the document URLs, with Călăraşi (51)
// and Giurgiu (52) kept in their alphabetical position.
type Region struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// counties is the reference table embedded in every output document.
// Names keep the publisher's spelling, including cedilla diacritics.
var counties = []Region{
	{ID: 1, Name: "Alba"},
	{ID: 2, Name: "Arad"},
	{ID: 3, Name: "Argeş"},
	{ID: 4, Name: "Bacau"},
	{ID: 5, Name: "Bihor"},
	{ID: 6, Name: "Bistriţa-Năsăud"},
	{ID: 7, Name: "Botoşani"},
	{ID: 8, Name: "Braşov"},
	{ID: 9, Name: "Brăila"},
	{ID: 10, Name: "Buzau"},
	{ID: 11, Name: "Caraş-Severin"},
	{ID: 51, Name: "Călăraşi"},
	{ID: 12, Name: "Cluj"},
	{ID: 13, Name: "Constanţa"},
	{ID: 14, Name: "Covasna"},
	{ID: 15, Name: "Dâmboviţa"},
	{ID: 16, Name: "Dolj"},
	{ID: 17, Name: "Galaţi"},
	{ID: 52, Name: "Giurgiu"},
	{ID: 18, Name: "Gorj"},
	{ID: 19, Name: "Harghita"},
	{ID: 20, Name: "Hunedoara"},
	{ID: 21, Name: "Ialomiţa"},
	{ID: 22, Name: "Iaşi"},
	{ID: 23, Name: "Ilfov"},
	{ID: 24, Name: "Maramureş"},
	{ID: 25, Name: "Mehedinţi"},
	{ID: 26, Name: "Mureş"},
	{ID: 27, Name: "Neamţ"},
	{ID: 28, Name: "Olt"},
	{ID: 29, Name: "Prahova"},
	{ID: 30, Name: "Satu-Mare"},
	{ID: 31, Name: "Sălaj"},
	{ID: 32, Name: "Sibiu"},
	{ID: 33, Name: "Suceava"},
	{ID: 34, Name: "Teleorman"},
	{ID: 35, Name: "Timiş"},
	{ID: 36, Name: "Tulcea"},
	{ID: 37, Name: "Vaslui"},
	{ID: 38, Name: "Vâlcea"},
	{ID: 39, Name: "Vrancea"},
	{ID: 40, Name: "Bucureşti"},
	{ID: 41, Name: "Sector Special"},
}

// Counties returns a copy of the county reference table in publisher order.
func Counties() []Region {
	out := make([]Region, len(counties))
	copy(out, counties)
	return out
}

// RegionByID looks up a county by its id.
func RegionByID(id int) (Region, bool) {
	for _, r := range counties {
		if r.ID == id {
			return r, true
		}
	}
	return Region{}, false
}
