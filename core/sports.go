package core

import "sort"

// OtherSport is the bucket used for records and players without a known sport.
const OtherSport = "Other"

var (
	SportPositions = map[string][]string{
		"Football":   {"Goalkeeper", "Center Back", "Left Back", "Right Back", "Defensive Midfielder", "Central Midfielder", "Attacking Midfielder", "Left Winger", "Right Winger", "Striker", "Center Forward"},
		"Cricket":    {"Wicket Keeper", "Batsman", "All Rounder", "Fast Bowler", "Spin Bowler", "Opening Batsman", "Middle Order", "Finisher"},
		"Basketball": {"Point Guard", "Shooting Guard", "Small Forward", "Power Forward", "Center"},
		"Tennis":     {"Singles Player", "Doubles Player"},
		"Badminton":  {"Singles Player", "Doubles Player"},
		"Hockey":     {"Goalkeeper", "Defender", "Midfielder", "Forward"},
		"Volleyball": {"Setter", "Outside Hitter", "Middle Blocker", "Opposite Hitter", "Libero", "Defensive Specialist"},
		"Swimming":   {"Freestyle", "Backstroke", "Breaststroke", "Butterfly", "Individual Medley"},
		"Athletics":  {"Sprinter", "Middle Distance", "Long Distance", "Jumper", "Thrower"},
		OtherSport:   {"Player"},
	}

	// SportCategories holds the 5 canonical performance categories of each sport.
	SportCategories = map[string][]string{
		"Football":   {"Technical Skills", "Physical Fitness", "Tactical Awareness", "Mental Strength", "Teamwork"},
		"Cricket":    {"Technical Skills", "Physical Fitness", "Mental Strength", "Teamwork", "Match Awareness"},
		"Basketball": {"Shooting & Scoring", "Defense & Rebounding", "Ball Handling", "Court Vision", "Physical Fitness"},
		"Tennis":     {"Technical Skills", "Physical Fitness", "Mental Strength", "Match Strategy", "Consistency"},
		"Swimming":   {"Technique", "Speed & Endurance", "Mental Focus", "Training Discipline", "Race Strategy"},
		"Badminton":  {"Technical Skills", "Physical Fitness", "Mental Focus", "Court Coverage", "Game Strategy"},
		"Athletics":  {"Technical Form", "Physical Fitness", "Mental Strength", "Training Discipline", "Competition Performance"},
		"Hockey":     {"Technical Skills", "Physical Fitness", "Tactical Awareness", "Mental Strength", "Teamwork"},
		"Volleyball": {"Technical Skills", "Physical Fitness", "Tactical Awareness", "Mental Strength", "Teamwork"},
		OtherSport:   {"Technical Skills", "Physical Fitness", "Mental Strength", "Performance Consistency", "Training Attitude"},
	}

	// AcademyCategories is the fixed radar shape of the academy-wide skill radar.
	AcademyCategories = []string{"Technical Skills", "Physical Fitness", "Tactical Awareness", "Mental Strength", "Teamwork"}

	IndividualSports = []string{"Tennis", "Swimming", "Badminton", "Athletics"}
	TeamSports       = []string{"Football", "Cricket", "Basketball", "Hockey", "Volleyball"}

	TrainingDays    = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	TrainingBatches = []string{"Morning", "Evening", "Both"}
)

// CategoriesFor returns the performance categories of `sport`,
// falling back to the OtherSport list for unknown sports.
func CategoriesFor(sport string) []string {
	if cats, ok := SportCategories[sport]; ok {
		return cats
	}
	return SportCategories[OtherSport]
}

// IsKnownSport reports whether `sport` has an entry in the sport tables.
func IsKnownSport(sport string) bool {
	_, ok := SportPositions[sport]
	return ok
}

// IsIndividualSport reports whether `sport` is played individually.
func IsIndividualSport(sport string) bool {
	return ContainsString(IndividualSports, sport)
}

// SportNames returns the known sports sorted by name.
func SportNames() []string {
	names := make([]string, 0, len(SportPositions))
	for name := range SportPositions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
