package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz is an assessment attached to a course, optionally backing a QUIZ lesson.
// The four point values form the award schedule keyed by attempt number; the
// fourth value covers every attempt from the fourth onward.
type Quiz struct {
	gorm.Model
	CourseID         uint   `json:"course_id" gorm:"index;not null"`
	LessonID         *uint  `json:"lesson_id" gorm:"index"`
	Title            string `json:"title" gorm:"size:255;not null"`
	FirstTryPoints   int    `json:"first_try_points" gorm:"default:0"`
	SecondTryPoints  int    `json:"second_try_points" gorm:"default:0"`
	ThirdTryPoints   int    `json:"third_try_points" gorm:"default:0"`
	FourthPlusPoints int    `json:"fourth_plus_points" gorm:"default:0"`
	IsDeleted        bool   `gorm:"default:false"`
}

// Question belongs to exactly one quiz and owns 2-8 options
type Question struct {
	gorm.Model
	QuizID       uint     `json:"quiz_id" gorm:"index;not null"`
	QuestionText string   `json:"question_text" gorm:"type:text;not null"`
	OrderIndex   int      `json:"order_index" gorm:"default:0"`
	Options      []Option `json:"options" gorm:"foreignKey:QuestionID"`
	IsDeleted    bool     `gorm:"default:false"`
}

// Option is one answer choice. Exactly one option per question carries
// IsCorrect = true; the authoring store rejects any other shape.
type Option struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	OptionText string `json:"option_text" gorm:"not null"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `gorm:"default:false"`
}

// Attempt is an immutable record of one learner's pass through a quiz.
// The unique index on (user, quiz, attempt number) is what serializes
// concurrent double-submissions; the scorer retries once on conflict.
type Attempt struct {
	gorm.Model
	QuizID        uint           `json:"quiz_id" gorm:"index;not null;uniqueIndex:idx_attempt_seq"`
	UserID        uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_attempt_seq"`
	AttemptNumber int            `json:"attempt_number" gorm:"not null;uniqueIndex:idx_attempt_seq"`
	Score         int            `json:"score"`         // integer percentage 0-100
	PointsEarned  int            `json:"points_earned"` // 0 unless this is the first perfect attempt
	Answers       datatypes.JSON `json:"answers"`       // per-question results snapshot
	StartedAt     time.Time      `json:"started_at"`
	CompletedAt   time.Time      `json:"completed_at"`
	IsDeleted     bool           `gorm:"default:false"`
}
