// Package ecosim содержит эталонный кейс задания ecosystem-sim:
// сценарий проверки и референсный порядок вычислений из 18 шагов.
//
// Референсный манифест — это «золотой» сабмишен: он используется в
// тестах грейдера, в команде `biome grade --example` и как сид при
// первичном наполнении БД. Конкретные формулы принадлежат кейсу, не
// движку — движок имён не знает.
package ecosim

import (
	"github.com/shaiso/Biome/internal/domain"
)

// Assignment — имя задания.
const Assignment = "ecosystem-sim"

// ScenarioBaseline — имя базового сценария проверки.
const ScenarioBaseline = "baseline"

// Independents — имена независимых переменных задания.
var Independents = []string{
	"solar_intensity",
	"humidity",
	"wind_speed",
	"population",
}

// Derived — имена производных переменных, которые обязан вычислить
// каждый сабмишен. Порядок совпадает с референсным манифестом.
var Derived = []string{
	"temperature",
	"cloud_density",
	"photosynthesis",
	"plants_density",
	"oxygen",
	"carbon_dioxide",
	"asi",
	"rainfall_intensity",
	"radius_of_wet_ground",
	"rainfall_area",
	"power",
	"uv_index",
	"pollution",
	"health_risk",
	"crop_yield",
	"hunger",
	"water_resources",
	"thirst",
}

// BaselineScenario возвращает базовый сценарий: все четыре независимые
// переменные равны нулю, обязательны все 18 производных переменных.
func BaselineScenario() domain.Scenario {
	return domain.Scenario{
		Name: ScenarioBaseline,
		Independents: map[string]float64{
			"solar_intensity": 0,
			"humidity":        0,
			"wind_speed":      0,
			"population":      0,
		},
		Required: append([]string(nil), Derived...),
	}
}

// ReferenceManifest возвращает референсный порядок вычислений.
//
// Формулы подобраны так, чтобы быть определёнными на всей области
// входов сценария (никаких делений на ноль при нулевых независимых
// переменных) и чтобы каждый шаг зависел только от независимых
// переменных и выходов более ранних шагов.
func ReferenceManifest() domain.Manifest {
	return domain.Manifest{
		Version:    "1",
		Assignment: Assignment,
		Steps: []domain.StepSpec{
			{
				Output:    "temperature",
				DependsOn: []string{"solar_intensity", "wind_speed"},
				Expr:      "20 + 0.05 * solar_intensity - 0.02 * wind_speed",
			},
			{
				Output:    "cloud_density",
				DependsOn: []string{"humidity", "wind_speed"},
				Expr:      "humidity * 100 / (wind_speed + 100)",
			},
			{
				Output:    "photosynthesis",
				DependsOn: []string{"solar_intensity", "cloud_density"},
				Expr:      "solar_intensity * (100 - cloud_density) / 100",
			},
			{
				Output:    "plants_density",
				DependsOn: []string{"photosynthesis", "humidity"},
				Expr:      "photosynthesis * 0.7 + humidity * 0.1",
			},
			{
				Output:    "oxygen",
				DependsOn: []string{"plants_density"},
				Expr:      "21 + plants_density * 0.01",
			},
			{
				Output:    "carbon_dioxide",
				DependsOn: []string{"population", "photosynthesis"},
				Expr:      "400 + population * 0.5 - photosynthesis * 0.2",
			},
			{
				Output:    "asi",
				DependsOn: []string{"oxygen", "humidity", "carbon_dioxide"},
				Expr:      "(oxygen * 4 + humidity) / (carbon_dioxide * 0.01 + 1)",
			},
			{
				Output:    "rainfall_intensity",
				DependsOn: []string{"cloud_density", "humidity"},
				Expr:      "cloud_density * humidity / 100",
			},
			{
				Output:    "radius_of_wet_ground",
				DependsOn: []string{"rainfall_intensity"},
				Expr:      "(rainfall_intensity * 10) ** 0.5",
			},
			{
				Output:    "rainfall_area",
				DependsOn: []string{"radius_of_wet_ground"},
				Expr:      "3.14159265 * radius_of_wet_ground ** 2",
			},
			{
				Output:    "power",
				DependsOn: []string{"solar_intensity", "wind_speed"},
				Expr:      "solar_intensity * 0.18 + wind_speed * 1.5",
			},
			{
				Output:    "uv_index",
				DependsOn: []string{"solar_intensity", "cloud_density"},
				Expr:      "solar_intensity * (100 - cloud_density) / 2500",
			},
			{
				Output:    "pollution",
				DependsOn: []string{"population", "wind_speed"},
				Expr:      "population * 0.8 / (wind_speed + 1)",
			},
			{
				Output:    "health_risk",
				DependsOn: []string{"pollution", "uv_index"},
				Expr:      "pollution * 0.6 + uv_index * 2",
			},
			{
				Output:    "crop_yield",
				DependsOn: []string{"plants_density", "rainfall_area"},
				Expr:      "plants_density * 0.5 + rainfall_area * 0.01",
			},
			{
				Output:    "hunger",
				DependsOn: []string{"population", "crop_yield"},
				Expr:      "population / (crop_yield + 1)",
			},
			{
				Output:    "water_resources",
				DependsOn: []string{"rainfall_area", "rainfall_intensity", "humidity"},
				Expr:      "rainfall_area * rainfall_intensity * 0.3 + humidity",
			},
			{
				Output:    "thirst",
				DependsOn: []string{"population", "water_resources"},
				Expr:      "population / (water_resources + 1)",
			},
		},
	}
}
