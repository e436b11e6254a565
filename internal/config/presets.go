package config

// Presets are built-in scenarios selectable by name from the CLI.
var Presets = map[string]*Config{
	"twin": {
		Name: "twin", TickRate: 60, Duration: 40, StartTime: 0,
		Entities: []EntityConfig{
			{
				Name: "traveler", Model: "ship", Color: [4]float64{1, 0.8, 0.2, 1}, User: true,
				Commands: []CommandConfig{
					{Time: 0, Accel: [3]float64{0.5, 0, 0}},
					{Time: 10, Accel: [3]float64{-0.5, 0, 0}},
					{Time: 30, Accel: [3]float64{0, 0, 0}},
				},
			},
			{Name: "homebody", Model: "cube", Color: [4]float64{0.4, 0.9, 0.4, 1}},
		},
	},
	"flyby": {
		Name: "flyby", TickRate: 60, Duration: 20, StartTime: 0,
		Entities: []EntityConfig{
			{Name: "watcher", Model: "ship", Color: [4]float64{1, 1, 1, 1}, User: true},
			{
				Name: "streak", Model: "cube", Color: [4]float64{1, 0.3, 0.3, 1},
				Position: [4]float64{-100, 0, -10, 0},
				Velocity: [3]float64{0.95, 0, 0},
			},
		},
	},
	"fleet": {
		Name: "fleet", TickRate: 60, Duration: 30, StartTime: 0,
		Entities: []EntityConfig{
			{
				Name: "lead", Model: "ship", Color: [4]float64{0.9, 0.9, 1, 1}, User: true,
				Commands: []CommandConfig{
					{Time: 0, Accel: [3]float64{0, 0, -0.25}},
					{Time: 20, Accel: [3]float64{0, 0, 0}},
				},
			},
			{
				Name: "wing", Model: "ship", Color: [4]float64{0.6, 0.6, 1, 1},
				Position: [4]float64{5, 0, 0, 0},
				Commands: []CommandConfig{
					{Time: 2, Accel: [3]float64{0, 0, -0.25}},
					{Time: 22, Accel: [3]float64{0, 0, 0}},
				},
			},
			{
				Name: "drifter", Model: "cube", Color: [4]float64{0.5, 1, 0.7, 1},
				Position: [4]float64{0, 0, -50, 0},
				Velocity: [3]float64{0, 0, 0.6},
			},
		},
	},
}
