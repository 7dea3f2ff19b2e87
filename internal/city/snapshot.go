package city

import "github.com/go-gl/mathgl/mgl64"

// Pose is what a renderer needs to place an entity: where it is and which
// way it faces about +Y.
type Pose struct {
	Position mgl64.Vec3 `json:"pos"`
	Yaw      float64    `json:"yaw"`
}

type VehiclePose struct {
	Pose
	Kind   string `json:"kind"`
	Role   string `json:"role"`
	Index  int    `json:"index"`
	Driven bool   `json:"driven,omitempty"`
}

type PedestrianPose struct {
	Pose
	Leg float64 `json:"leg"`
}

// Snapshot is one frame of dynamic state.
type Snapshot struct {
	Frame        uint64           `json:"frame"`
	Mode         string           `json:"mode"`
	Player       Pose             `json:"player"`
	Camera       mgl64.Vec3       `json:"camera"`
	Vehicles     []VehiclePose    `json:"vehicles"`
	Pedestrians  []PedestrianPose `json:"pedestrians"`
	Effects      []mgl64.Vec3     `json:"effects"`
	Collectibles []mgl64.Vec3     `json:"collectibles"`
	Weather      string           `json:"weather"`
	Score        int              `json:"score"`
}

type BuildingBox struct {
	Min mgl64.Vec3 `json:"min"`
	Max mgl64.Vec3 `json:"max"`
}

// LayoutSnapshot is the static city, sent once.
type LayoutSnapshot struct {
	Seed          uint64        `json:"seed"`
	Bound         float64       `json:"bound"`
	BlockSize     float64       `json:"blockSize"`
	RoadWidth     float64       `json:"roadWidth"`
	SidewalkWidth float64       `json:"sidewalkWidth"`
	RoadCenters   []float64     `json:"roadCenters"`
	Blocks        []mgl64.Vec3  `json:"blocks"`
	Buildings     []BuildingBox `json:"buildings"`
}

func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Frame:        w.Frames,
		Mode:         w.Player.Mode().String(),
		Player:       w.Player.Pose(),
		Camera:       w.Camera.EffectivePos(),
		Vehicles:     make([]VehiclePose, 0, len(w.Traffic.Cars)+len(w.Parking.Cars)),
		Pedestrians:  make([]PedestrianPose, 0, len(w.Peds.Peds)),
		Effects:      make([]mgl64.Vec3, 0, w.Effects.Len()),
		Collectibles: make([]mgl64.Vec3, 0, w.Collectibles.Len()),
		Weather:      w.Weather.Mode().String(),
		Score:        w.Score,
	}
	driven, driving := w.Player.Vehicle()
	add := func(cars []Vehicle) {
		for i := range cars {
			v := &cars[i]
			s.Vehicles = append(s.Vehicles, VehiclePose{
				Pose:   v.Pose(),
				Kind:   v.Kind.String(),
				Role:   v.Role.String(),
				Index:  i,
				Driven: driving && driven.Role == v.Role && driven.Index == i,
			})
		}
	}
	add(w.Traffic.Cars)
	add(w.Parking.Cars)
	for i := range w.Peds.Peds {
		p := &w.Peds.Peds[i]
		s.Pedestrians = append(s.Pedestrians, PedestrianPose{Pose: p.Pose(), Leg: p.LegSwing()})
	}
	for i := range w.Effects.P {
		s.Effects = append(s.Effects, w.Effects.P[i].Pos)
	}
	for i := range w.Collectibles.Items {
		s.Collectibles = append(s.Collectibles, w.Collectibles.Items[i].Pos)
	}
	return s
}

func (w *World) LayoutSnapshot() LayoutSnapshot {
	l := w.Layout
	ls := LayoutSnapshot{
		Seed:          w.Seed,
		Bound:         l.Bound,
		BlockSize:     l.Params.BlockSize,
		RoadWidth:     l.Params.RoadWidth,
		SidewalkWidth: l.Params.SidewalkWidth,
		RoadCenters:   l.RoadCenters,
		Blocks:        make([]mgl64.Vec3, 0, len(l.Blocks)),
		Buildings:     make([]BuildingBox, 0, len(l.Buildings)),
	}
	for _, b := range l.Blocks {
		ls.Blocks = append(ls.Blocks, b.Center)
	}
	for _, b := range l.Buildings {
		ls.Buildings = append(ls.Buildings, BuildingBox{Min: b.Box.Min, Max: b.Box.Max})
	}
	return ls
}
