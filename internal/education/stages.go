package education

import "github.com/roach88/lifesim/internal/model"

// Stage identifiers.
const (
	Elementary       model.StageID = "elementary"
	Middle           model.StageID = "middle_school"
	HighSchool       model.StageID = "high_school"
	TradeSchool      model.StageID = "trade_school"
	CommunityCollege model.StageID = "community_college"
	Bachelor         model.StageID = "bachelor"
	Bootcamp         model.StageID = "bootcamp"
	Master           model.StageID = "master"
	PhD              model.StageID = "phd"
)

// Stage is one node of the education partial order.
type Stage struct {
	ID            model.StageID
	Name          string
	Level         int
	YearsRequired int
	MinAge        int
	Cost          int64
	Prerequisite  model.StageID
	Compulsory    bool
	Certification string

	// Skill, when set, gains Level points per year of study.
	Skill model.Skill
}

// DefaultStages is the linear core path plus the trade and fast-track branches.
//
// Core: elementary -> middle -> high school -> bachelor -> master -> phd.
// Branches: trade school after middle school; community college and
// bootcamp after high school.
var DefaultStages = []Stage{
	{ID: Elementary, Name: "Elementary School", Level: 1, YearsRequired: 6, MinAge: 6, Compulsory: true},
	{ID: Middle, Name: "Middle School", Level: 2, YearsRequired: 3, MinAge: 11, Prerequisite: Elementary, Compulsory: true},
	{ID: HighSchool, Name: "High School", Level: 3, YearsRequired: 4, MinAge: 14, Prerequisite: Middle, Compulsory: true, Certification: "High School Diploma"},
	{ID: TradeSchool, Name: "Trade School", Level: 4, YearsRequired: 2, MinAge: 16, Cost: 8000, Prerequisite: Middle, Certification: "Trade Certificate", Skill: model.SkillCareer},
	{ID: CommunityCollege, Name: "Community College", Level: 4, YearsRequired: 2, MinAge: 17, Cost: 6000, Prerequisite: HighSchool, Certification: "Associate Degree"},
	{ID: Bachelor, Name: "Bachelor's Degree", Level: 5, YearsRequired: 4, MinAge: 17, Cost: 40000, Prerequisite: HighSchool, Certification: "Bachelor's Degree"},
	{ID: Bootcamp, Name: "Coding Bootcamp", Level: 5, YearsRequired: 1, MinAge: 18, Cost: 12000, Prerequisite: HighSchool, Certification: "Bootcamp Certificate", Skill: model.SkillCareer},
	{ID: Master, Name: "Master's Degree", Level: 6, YearsRequired: 2, MinAge: 21, Cost: 30000, Prerequisite: Bachelor, Certification: "Master's Degree"},
	{ID: PhD, Name: "Doctorate", Level: 7, YearsRequired: 4, MinAge: 22, Cost: 20000, Prerequisite: Master, Certification: "PhD", Skill: model.SkillCreativity},
}

// corePath is the order followed by EnsureCompulsory and NextStage.
var corePath = []model.StageID{Elementary, Middle, HighSchool, Bachelor, Master, PhD}
