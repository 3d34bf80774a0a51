package domain

// AllModels lists every persisted entity in migration-safe order
// (parents before children).
func AllModels() []any {
	return []any{
		&User{},
		&Profile{},
		&State{},
		&District{},
		&SubDistrict{},
		&Village{},
		&Canal{},
		&Farm{},
		&Application{},
		&ApplicationFarm{},
		&RateAssessment{},
		&Payment{},
		&Counter{},
	}
}
