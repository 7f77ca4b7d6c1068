package quiz

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/studentportal/core"
)

var (
	endAfterStartTag  = "endafterstart"
	endAfterStartText = "end date must be after start date"

	answerInRangeTag  = "answerinrange"
	answerInRangeText = "correct answer must be the index of one of the options"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(quizStructValidation, NewQuiz{})
	validate.RegisterStructValidation(questionStructValidation, NewQuestion{})
	core.RegisterCustomTranslation(validate, translator, endAfterStartTag, endAfterStartText)
	core.RegisterCustomTranslation(validate, translator, answerInRangeTag, answerInRangeText)
}

// quizStructValidation checks that EndDate is strictly after StartDate.
func quizStructValidation(sl validator.StructLevel) {
	nq := sl.Current().Interface().(NewQuiz)
	if nq.StartDate.IsZero() || nq.EndDate.IsZero() { // reported by `required`
		return
	}
	if !nq.EndDate.After(nq.StartDate) {
		sl.ReportError(nq.EndDate, "endDate", "EndDate", endAfterStartTag, "")
	}
}

// questionStructValidation checks that CorrectAnswer indexes one of the Options.
func questionStructValidation(sl validator.StructLevel) {
	nq := sl.Current().Interface().(NewQuestion)
	if nq.CorrectAnswer == nil || *nq.CorrectAnswer < 0 || len(nq.Options) == 0 {
		return
	}
	if *nq.CorrectAnswer >= len(nq.Options) {
		sl.ReportError(nq.CorrectAnswer, "correctAnswer", "CorrectAnswer", answerInRangeTag, "")
	}
}
