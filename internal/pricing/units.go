package pricing

import (
	"math"
	"strings"

	"github.com/frigomagique/pricing-engine/internal/matching"
)

// Reference quantities for unit scaling. Domain heuristics, not physical
// constants: named here so they stay tunable and testable.
const (
	// Base units (g or mL) per reference unit of a per-kg / per-L price.
	BaseUnitsPerReference = 1000.0

	// Kitchen-measure equivalents in g or mL.
	GramsPerCup        = 250.0
	GramsPerTablespoon = 15.0
	GramsPerTeaspoon   = 5.0
	GramsPerPound      = 454.0
	GramsPerOunce      = 28.0

	// Sliced products are priced per package.
	SlicesPerBaconPackage  = 14.0
	SlicesPerSlicedPackage = 12.0

	// A loose "piece" of a packaged product counts as a tenth of the package.
	PiecesPerPackage = 10.0
)

// unitClass selects the scaling arithmetic for a unit.
type unitClass int

const (
	classUnknown unitClass = iota
	classMeasure           // g/mL equivalent against a per-kg or per-L price
	classDozen             // price is per dozen, quantity is dozens
	classSlice             // price is per package of slices
	classPiece             // price is per package, a piece is a fraction of it
	classPackage           // price is per package
)

// unitTable maps normalized unit names (fr and en) to their class and, for
// measures, their g/mL equivalent.
var unitTable = map[string]struct {
	class unitClass
	grams float64
}{
	"g":       {classMeasure, 1},
	"gramme":  {classMeasure, 1},
	"grammes": {classMeasure, 1},
	"gram":    {classMeasure, 1},
	"grams":   {classMeasure, 1},
	"ml":      {classMeasure, 1},
	"kg":      {classMeasure, BaseUnitsPerReference},
	"kilo":    {classMeasure, BaseUnitsPerReference},
	"l":       {classMeasure, BaseUnitsPerReference},
	"litre":   {classMeasure, BaseUnitsPerReference},
	"litres":  {classMeasure, BaseUnitsPerReference},
	"liter":   {classMeasure, BaseUnitsPerReference},

	"tasse":  {classMeasure, GramsPerCup},
	"tasses": {classMeasure, GramsPerCup},
	"cup":    {classMeasure, GramsPerCup},
	"cups":   {classMeasure, GramsPerCup},

	"cuillere a soupe":  {classMeasure, GramsPerTablespoon},
	"cuilleres a soupe": {classMeasure, GramsPerTablespoon},
	"c a soupe":         {classMeasure, GramsPerTablespoon},
	"tablespoon":        {classMeasure, GramsPerTablespoon},
	"tablespoons":       {classMeasure, GramsPerTablespoon},
	"tbsp":              {classMeasure, GramsPerTablespoon},
	"cuillere a the":    {classMeasure, GramsPerTeaspoon},
	"cuilleres a the":   {classMeasure, GramsPerTeaspoon},
	"c a the":           {classMeasure, GramsPerTeaspoon},
	"teaspoon":          {classMeasure, GramsPerTeaspoon},
	"teaspoons":         {classMeasure, GramsPerTeaspoon},
	"tsp":               {classMeasure, GramsPerTeaspoon},

	"livre":  {classMeasure, GramsPerPound},
	"livres": {classMeasure, GramsPerPound},
	"lb":     {classMeasure, GramsPerPound},
	"lbs":    {classMeasure, GramsPerPound},
	"pound":  {classMeasure, GramsPerPound},
	"pounds": {classMeasure, GramsPerPound},
	"once":   {classMeasure, GramsPerOunce},
	"onces":  {classMeasure, GramsPerOunce},
	"oz":     {classMeasure, GramsPerOunce},
	"ounce":  {classMeasure, GramsPerOunce},
	"ounces": {classMeasure, GramsPerOunce},

	"douzaine": {classDozen, 0},
	"dozen":    {classDozen, 0},

	"tranche":  {classSlice, 0},
	"tranches": {classSlice, 0},
	"slice":    {classSlice, 0},
	"slices":   {classSlice, 0},

	"unite":   {classPiece, 0},
	"unites":  {classPiece, 0},
	"piece":   {classPiece, 0},
	"pieces":  {classPiece, 0},
	"morceau": {classPiece, 0},

	"paquet":   {classPackage, 0},
	"paquets":  {classPackage, 0},
	"package":  {classPackage, 0},
	"packages": {classPackage, 0},
	"pack":     {classPackage, 0},
	"boite":    {classPackage, 0},
	"box":      {classPackage, 0},
}

// ConvertUnitPrice scales a resolved unit-reference price to a cost for the
// requested quantity and unit. Stateless; separate from price-source
// resolution. Unknown units are treated as whole-package counts.
func ConvertUnitPrice(referencePrice, quantity float64, unit string) float64 {
	return ConvertUnitPriceFor(referencePrice, quantity, unit, "")
}

// ConvertUnitPriceFor is ConvertUnitPrice with the ingredient name available,
// so slice counts can distinguish bacon packages from other sliced products.
func ConvertUnitPriceFor(referencePrice, quantity float64, unit, ingredientName string) float64 {
	if referencePrice <= 0 || quantity <= 0 {
		return 0
	}

	entry, ok := unitTable[matching.Normalize(unit)]
	if !ok {
		entry.class = classPackage
	}

	var amount float64
	switch entry.class {
	case classMeasure:
		amount = referencePrice / BaseUnitsPerReference * (quantity * entry.grams)
	case classDozen, classPackage:
		amount = referencePrice * quantity
	case classSlice:
		amount = referencePrice * quantity / slicesPerPackage(ingredientName)
	case classPiece:
		amount = referencePrice * quantity / PiecesPerPackage
	default:
		amount = referencePrice * quantity
	}

	return round2(amount)
}

func slicesPerPackage(ingredientName string) float64 {
	if strings.Contains(matching.Normalize(ingredientName), "bacon") {
		return SlicesPerBaconPackage
	}
	return SlicesPerSlicedPackage
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
