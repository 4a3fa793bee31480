package seeder

func Defaults() []Seeder {
	return []Seeder{
		CompetencySeeder{Items: DefaultCompetencies()},
	}
}
