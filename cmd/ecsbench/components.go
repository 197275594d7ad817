package main

import "github.com/tessera-engine/tessera/ecs"

// genValue is the shared payload of every generated component: one float64
// a system body can bump without caring which concrete type it holds.
type genValue struct{ Value float64 }

func (g *genValue) bump() { g.Value++ }

// bumper is what touchSystem asserts a matched component to.
type bumper interface{ bump() }

// Each GenComponentN is a distinct registered type so the store, the query
// caches and the dependency builder all see a real multi-type population
// rather than one type under many names.
type GenComponent0 struct{ genValue }
type GenComponent1 struct{ genValue }
type GenComponent2 struct{ genValue }
type GenComponent3 struct{ genValue }
type GenComponent4 struct{ genValue }
type GenComponent5 struct{ genValue }
type GenComponent6 struct{ genValue }
type GenComponent7 struct{ genValue }
type GenComponent8 struct{ genValue }
type GenComponent9 struct{ genValue }
type GenComponent10 struct{ genValue }
type GenComponent11 struct{ genValue }
type GenComponent12 struct{ genValue }
type GenComponent13 struct{ genValue }
type GenComponent14 struct{ genValue }
type GenComponent15 struct{ genValue }
type GenComponent16 struct{ genValue }
type GenComponent17 struct{ genValue }
type GenComponent18 struct{ genValue }
type GenComponent19 struct{ genValue }
type GenComponent20 struct{ genValue }
type GenComponent21 struct{ genValue }
type GenComponent22 struct{ genValue }
type GenComponent23 struct{ genValue }
type GenComponent24 struct{ genValue }
type GenComponent25 struct{ genValue }
type GenComponent26 struct{ genValue }
type GenComponent27 struct{ genValue }
type GenComponent28 struct{ genValue }
type GenComponent29 struct{ genValue }
type GenComponent30 struct{ genValue }
type GenComponent31 struct{ genValue }

// generatedComponentNames lists every type the bench registers, in
// registration order; system and entity generation both index into it.
var generatedComponentNames = []ecs.ComponentTypeName{
	"GenComponent0", "GenComponent1", "GenComponent2", "GenComponent3",
	"GenComponent4", "GenComponent5", "GenComponent6", "GenComponent7",
	"GenComponent8", "GenComponent9", "GenComponent10", "GenComponent11",
	"GenComponent12", "GenComponent13", "GenComponent14", "GenComponent15",
	"GenComponent16", "GenComponent17", "GenComponent18", "GenComponent19",
	"GenComponent20", "GenComponent21", "GenComponent22", "GenComponent23",
	"GenComponent24", "GenComponent25", "GenComponent26", "GenComponent27",
	"GenComponent28", "GenComponent29", "GenComponent30", "GenComponent31",
}

// registerGeneratedComponents registers every GenComponentN under its name
// in generatedComponentNames.
func registerGeneratedComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[GenComponent0](registry, generatedComponentNames[0])
	ecs.RegisterComponent[GenComponent1](registry, generatedComponentNames[1])
	ecs.RegisterComponent[GenComponent2](registry, generatedComponentNames[2])
	ecs.RegisterComponent[GenComponent3](registry, generatedComponentNames[3])
	ecs.RegisterComponent[GenComponent4](registry, generatedComponentNames[4])
	ecs.RegisterComponent[GenComponent5](registry, generatedComponentNames[5])
	ecs.RegisterComponent[GenComponent6](registry, generatedComponentNames[6])
	ecs.RegisterComponent[GenComponent7](registry, generatedComponentNames[7])
	ecs.RegisterComponent[GenComponent8](registry, generatedComponentNames[8])
	ecs.RegisterComponent[GenComponent9](registry, generatedComponentNames[9])
	ecs.RegisterComponent[GenComponent10](registry, generatedComponentNames[10])
	ecs.RegisterComponent[GenComponent11](registry, generatedComponentNames[11])
	ecs.RegisterComponent[GenComponent12](registry, generatedComponentNames[12])
	ecs.RegisterComponent[GenComponent13](registry, generatedComponentNames[13])
	ecs.RegisterComponent[GenComponent14](registry, generatedComponentNames[14])
	ecs.RegisterComponent[GenComponent15](registry, generatedComponentNames[15])
	ecs.RegisterComponent[GenComponent16](registry, generatedComponentNames[16])
	ecs.RegisterComponent[GenComponent17](registry, generatedComponentNames[17])
	ecs.RegisterComponent[GenComponent18](registry, generatedComponentNames[18])
	ecs.RegisterComponent[GenComponent19](registry, generatedComponentNames[19])
	ecs.RegisterComponent[GenComponent20](registry, generatedComponentNames[20])
	ecs.RegisterComponent[GenComponent21](registry, generatedComponentNames[21])
	ecs.RegisterComponent[GenComponent22](registry, generatedComponentNames[22])
	ecs.RegisterComponent[GenComponent23](registry, generatedComponentNames[23])
	ecs.RegisterComponent[GenComponent24](registry, generatedComponentNames[24])
	ecs.RegisterComponent[GenComponent25](registry, generatedComponentNames[25])
	ecs.RegisterComponent[GenComponent26](registry, generatedComponentNames[26])
	ecs.RegisterComponent[GenComponent27](registry, generatedComponentNames[27])
	ecs.RegisterComponent[GenComponent28](registry, generatedComponentNames[28])
	ecs.RegisterComponent[GenComponent29](registry, generatedComponentNames[29])
	ecs.RegisterComponent[GenComponent30](registry, generatedComponentNames[30])
	ecs.RegisterComponent[GenComponent31](registry, generatedComponentNames[31])
}

// newGenComponent builds the zero-indexed-N component value, used by
// spawnRandomEntity so it doesn't need a 32-way type switch at the call
// site.
func newGenComponent(n int) any {
	switch n % len(generatedComponentNames) {
	case 0:
		return &GenComponent0{}
	case 1:
		return &GenComponent1{}
	case 2:
		return &GenComponent2{}
	case 3:
		return &GenComponent3{}
	case 4:
		return &GenComponent4{}
	case 5:
		return &GenComponent5{}
	case 6:
		return &GenComponent6{}
	case 7:
		return &GenComponent7{}
	case 8:
		return &GenComponent8{}
	case 9:
		return &GenComponent9{}
	case 10:
		return &GenComponent10{}
	case 11:
		return &GenComponent11{}
	case 12:
		return &GenComponent12{}
	case 13:
		return &GenComponent13{}
	case 14:
		return &GenComponent14{}
	case 15:
		return &GenComponent15{}
	case 16:
		return &GenComponent16{}
	case 17:
		return &GenComponent17{}
	case 18:
		return &GenComponent18{}
	case 19:
		return &GenComponent19{}
	case 20:
		return &GenComponent20{}
	case 21:
		return &GenComponent21{}
	case 22:
		return &GenComponent22{}
	case 23:
		return &GenComponent23{}
	case 24:
		return &GenComponent24{}
	case 25:
		return &GenComponent25{}
	case 26:
		return &GenComponent26{}
	case 27:
		return &GenComponent27{}
	case 28:
		return &GenComponent28{}
	case 29:
		return &GenComponent29{}
	case 30:
		return &GenComponent30{}
	default:
		return &GenComponent31{}
	}
}
