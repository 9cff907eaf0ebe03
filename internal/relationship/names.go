package relationship

import "github.com/roach88/lifesim/internal/model"

var givenNames = []string{
	"Alex", "Avery", "Blake", "Casey", "Drew", "Eden", "Emery", "Finley",
	"Harper", "Hayden", "Jamie", "Jordan", "Kai", "Logan", "Morgan", "Noel",
	"Parker", "Quinn", "Reese", "Riley", "Rowan", "Sage", "Skyler", "Taylor",
}

var petNames = []string{
	"Biscuit", "Clover", "Kiwi", "Mochi", "Nugget", "Pepper", "Pickles", "Waffles",
}

func pickName(r model.Rand) string    { return givenNames[r.IntN(len(givenNames))] }
func pickPetName(r model.Rand) string { return petNames[r.IntN(len(petNames))] }
