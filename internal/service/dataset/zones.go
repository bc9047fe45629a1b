package dataset

import "github.com/Temutjin2k/taxi-pulse/internal/domain/types"

// StaticZones maps TLC taxi-zone identifiers to boroughs. The table covers
// the high-volume Manhattan core, the airports and a handful of outer-borough
// zones; any zone outside it resolves to Unknown rather than guessing.
type StaticZones struct{}

func (StaticZones) Borough(zoneID int) types.Borough {
	if b, ok := zoneBoroughs[zoneID]; ok {
		return b
	}
	return types.BoroughUnknown
}

var zoneBoroughs = map[int]types.Borough{
	// Airports
	1:   types.BoroughEWR,
	132: types.BoroughQueens, // JFK
	138: types.BoroughQueens, // LaGuardia

	// Manhattan core
	48:  types.BoroughManhattan, // Clinton East
	68:  types.BoroughManhattan, // East Chelsea
	79:  types.BoroughManhattan, // East Village
	90:  types.BoroughManhattan, // Flatiron
	107: types.BoroughManhattan, // Gramercy
	113: types.BoroughManhattan, // Greenwich Village North
	114: types.BoroughManhattan, // Greenwich Village South
	142: types.BoroughManhattan, // Lincoln Square East
	161: types.BoroughManhattan, // Midtown Center
	162: types.BoroughManhattan, // Midtown East
	163: types.BoroughManhattan, // Midtown North
	164: types.BoroughManhattan, // Midtown South
	170: types.BoroughManhattan, // Murray Hill
	186: types.BoroughManhattan, // Penn Station / Madison Sq West
	230: types.BoroughManhattan, // Times Sq / Theatre District
	234: types.BoroughManhattan, // Union Sq
	236: types.BoroughManhattan, // Upper East Side North
	237: types.BoroughManhattan, // Upper East Side South
	238: types.BoroughManhattan, // Upper West Side North
	239: types.BoroughManhattan, // Upper West Side South
	249: types.BoroughManhattan, // West Village

	// Brooklyn
	33:  types.BoroughBrooklyn, // Brooklyn Heights
	65:  types.BoroughBrooklyn, // Downtown Brooklyn / MetroTech
	181: types.BoroughBrooklyn, // Park Slope
	255: types.BoroughBrooklyn, // Williamsburg North
	256: types.BoroughBrooklyn, // Williamsburg South

	// Queens
	7:   types.BoroughQueens, // Astoria
	82:  types.BoroughQueens, // Elmhurst
	129: types.BoroughQueens, // Jackson Heights

	// Bronx
	3:  types.BoroughBronx, // Allerton / Pelham Gardens
	18: types.BoroughBronx, // Bedford Park
	20: types.BoroughBronx, // Belmont

	// Staten Island
	5:  types.BoroughStatenIsland, // Arden Heights
	23: types.BoroughStatenIsland, // Bloomfield / Emerson Hill
}
