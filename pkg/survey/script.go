package survey

type AnswerType string

const (
	AnswerTypeRating   AnswerType = "rating_1_5"
	AnswerTypeYesNo    AnswerType = "yes_no"
	AnswerTypeFreeText AnswerType = "free_text"
)

// Sentinel is the pre-seeded answer value for a question that was never answered.
func (t AnswerType) Sentinel() interface{} {
	switch t {
	case AnswerTypeRating:
		return 0
	case AnswerTypeYesNo:
		return "unknown"
	default:
		return ""
	}
}

type Question struct {
	ID         string     `json:"id"`
	Prompt     string     `json:"prompt"`
	AnswerType AnswerType `json:"answer_type"`
}

const (
	AgentSpeaker = "Riya"
	UserSpeaker  = "User"

	Greeting           = "Namaste! Main TVS service center se Riya bol rahi hoon. Aaj main aapka feedback lena chahti hoon. Kya aap 2 minute de sakte hain?"
	DeclineFarewell    = "Koi baat nahi, phir kabhi. Dhanyavaad!"
	CompletionFarewell = "Bahut bahut dhanyavaad aapka feedback dene ke liye! Aap ka din shubh rahe!"
)

// DefaultScript is the fixed post-service feedback questionnaire, asked in order.
func DefaultScript() []Question {
	return []Question{
		{
			ID:         "q1_overall_rating_1to5",
			Prompt:     "Pehle mujhe batayiye, overall service ka rating kya denge aap? 1 se 5 mein.",
			AnswerType: AnswerTypeRating,
		},
		{
			ID:         "q2_washing_yesno",
			Prompt:     "Theek hai. Vehicle washing satisfactory thi? Haan ya nahi?",
			AnswerType: AnswerTypeYesNo,
		},
		{
			ID:         "q3_advisor_behavior_1to5",
			Prompt:     "Achha. Service advisor ka behavior kaisa tha? 1 se 5 rating dijiye.",
			AnswerType: AnswerTypeRating,
		},
		{
			ID:         "q4_promised_time_yesno",
			Prompt:     "Samajh gayi. Kya vehicle promised time pe deliver hui thi? Haan ya nahi?",
			AnswerType: AnswerTypeYesNo,
		},
		{
			ID:         "q5_additional_comments_text",
			Prompt:     "Bilkul theek. Koi additional comments ya suggestions hain aapke paas?",
			AnswerType: AnswerTypeFreeText,
		},
	}
}
