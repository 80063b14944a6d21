package battlefield

// Built-in table sizes.
const (
	PresetDefault   = "Original default"
	PresetSixByFour = "6x4 table"
	PresetStandard  = "Standard 44x60"
	PresetSpearhead = "Spearhead 44x30"
	PresetCombat    = "Combat patrol 44x30"
	PresetOnslaught = "Onslaught 44x90"
)

func init() {
	Register(Preset{Name: PresetDefault, Description: "Portrait 4x6 foot table", Dimensions: Default()})
	Register(Preset{Name: PresetSixByFour, Description: "Landscape 6x4 foot table", Dimensions: Dimensions{Width: 72, Height: 48}})
	Register(Preset{Name: PresetStandard, Description: "Standard pitched battle", Dimensions: Dimensions{Width: 44, Height: 60}})
	Register(Preset{Name: PresetSpearhead, Description: "Half-size battlefield", Dimensions: Dimensions{Width: 44, Height: 30}})
	Register(Preset{Name: PresetCombat, Description: "Small skirmish board", Dimensions: Dimensions{Width: 44, Height: 30}})
	Register(Preset{Name: PresetOnslaught, Description: "Double-length table", Dimensions: Dimensions{Width: 44, Height: 90}})
}
