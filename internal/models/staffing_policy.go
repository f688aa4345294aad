package models

// CustomLine is a free-text allowance entered by the school administration.
type CustomLine struct {
	Label string  `json:"label" yaml:"label"`
	Hours float64 `json:"hours" yaml:"hours" validate:"gte=0"`
}

// CompensationAllowances are the Ausgleichsbedarf items of the worksheet.
type CompensationAllowances struct {
	Leadership         float64 `json:"leadership" yaml:"leadership" validate:"gte=0"`
	FullDaySchool      float64 `json:"full_day_school" yaml:"full_day_school" validate:"gte=0"`
	Inclusion          float64 `json:"inclusion" yaml:"inclusion" validate:"gte=0"`
	LanguageSupport    float64 `json:"language_support" yaml:"language_support" validate:"gte=0"`
	SocialIndex        float64 `json:"social_index" yaml:"social_index" validate:"gte=0"`
	SubstituteReserve  float64 `json:"substitute_reserve" yaml:"substitute_reserve" validate:"gte=0"`
	AgeReduction       float64 `json:"age_reduction" yaml:"age_reduction" validate:"gte=0"`
	SevereDisability   float64 `json:"severe_disability" yaml:"severe_disability" validate:"gte=0"`
	StaffCouncil       float64 `json:"staff_council" yaml:"staff_council" validate:"gte=0"`
	EqualOpportunity   float64 `json:"equal_opportunity" yaml:"equal_opportunity" validate:"gte=0"`
	HeritageLanguage   float64 `json:"heritage_language" yaml:"heritage_language" validate:"gte=0"`
	GiftedSupport      float64 `json:"gifted_support" yaml:"gifted_support" validate:"gte=0"`
	DigitalSupport     float64 `json:"digital_support" yaml:"digital_support" validate:"gte=0"`
	CareerGuidance     float64 `json:"career_guidance" yaml:"career_guidance" validate:"gte=0"`
	ClassSizeSurcharge float64 `json:"class_size_surcharge" yaml:"class_size_surcharge" validate:"gte=0"`
}

// OtherAreaAllowances are the "andere Bereiche" items of the worksheet.
type OtherAreaAllowances struct {
	Secondments     float64 `json:"secondments" yaml:"secondments" validate:"gte=0"`
	Sabbatical      float64 `json:"sabbatical" yaml:"sabbatical" validate:"gte=0"`
	SpecialProjects float64 `json:"special_projects" yaml:"special_projects" validate:"gte=0"`
	ExamDuties      float64 `json:"exam_duties" yaml:"exam_duties" validate:"gte=0"`
}

// StaffingPolicy holds every numeric input of the administrative staffing
// worksheet. Training deduction and rounding adjustment may be negative.
type StaffingPolicy struct {
	StudentCount        float64                `json:"student_count" yaml:"student_count" validate:"gte=0"`
	StudentTeacherRatio float64                `json:"student_teacher_ratio" yaml:"student_teacher_ratio" validate:"gte=0"`
	TrainingDeduction   float64                `json:"training_deduction" yaml:"training_deduction"`
	RoundingAdjustment  float64                `json:"rounding_adjustment" yaml:"rounding_adjustment"`
	PerPositionDeputat  float64                `json:"per_position_deputat" yaml:"per_position_deputat" validate:"gte=0"`
	Compensation        CompensationAllowances `json:"compensation" yaml:"compensation"`
	OtherAreas          OtherAreaAllowances    `json:"other_areas" yaml:"other_areas"`
	Custom1             CustomLine             `json:"custom_1" yaml:"custom_1"`
	Custom2             CustomLine             `json:"custom_2" yaml:"custom_2"`
}

// PolicyComputation exposes every intermediate value of the worksheet.
type PolicyComputation struct {
	Quotient            float64 `json:"quotient"`
	QuotientTruncated   float64 `json:"quotient_truncated"`
	RoundedBase         float64 `json:"rounded_base"`
	SumBaseNeed         float64 `json:"sum_base_need"`
	SumCompensationNeed float64 `json:"sum_compensation_need"`
	SumOtherAreas       float64 `json:"sum_other_areas"`
	GrandTotalHours     float64 `json:"grand_total_hours"`
	RequiredPositions   float64 `json:"required_positions"`
}

// Worksheet defaults for a Realschule; overridable through configuration.
const (
	DefaultStudentTeacherRatio = 20.19
	DefaultPerPositionDeputat  = 28.0
)

// DefaultStaffingPolicy returns the worksheet with every field at its default.
func DefaultStaffingPolicy() StaffingPolicy {
	return StaffingPolicy{
		StudentTeacherRatio: DefaultStudentTeacherRatio,
		PerPositionDeputat:  DefaultPerPositionDeputat,
	}
}
