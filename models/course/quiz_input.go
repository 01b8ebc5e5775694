package course

// QuizInput is the authoring payload for creating or patching a quiz.
// Pointer fields distinguish "absent" from zero on partial updates.
type QuizInput struct {
	Title            string `json:"title"`
	LessonID         *uint  `json:"lesson_id"`
	FirstTryPoints   *int   `json:"first_try_points"`
	SecondTryPoints  *int   `json:"second_try_points"`
	ThirdTryPoints   *int   `json:"third_try_points"`
	FourthPlusPoints *int   `json:"fourth_plus_points"`
}

// OptionInput is the authoring payload for one option
type OptionInput struct {
	OptionText string `json:"option_text"`
	IsCorrect  bool   `json:"is_correct"`
}

// QuestionInput is the authoring payload for a question and its full option
// set. On update the submitted set replaces the stored one entirely.
type QuestionInput struct {
	QuestionText string        `json:"question_text"`
	Options      []OptionInput `json:"options"`
}
