package tags

import "github.com/yohamta/donburi"

var (
	Wall        = donburi.NewTag().SetName("Wall")
	Coin        = donburi.NewTag().SetName("Coin")
	Pothole     = donburi.NewTag().SetName("Pothole")
	OilSlick    = donburi.NewTag().SetName("OilSlick")
	FinishLine  = donburi.NewTag().SetName("FinishLine")
	Checkpoint  = donburi.NewTag().SetName("Checkpoint")
	LocalRider  = donburi.NewTag().SetName("LocalRider")
	RemoteRider = donburi.NewTag().SetName("RemoteRider")
)
