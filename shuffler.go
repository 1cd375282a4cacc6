package studypartner

import "math/rand"

// ShuffleOptions randomly permutes a question's options in place. The answer
// is carried by value, not by index, so it stays correct no matter where the
// matching option lands.
func ShuffleOptions(q *QuizQuestion) {
	answer := q.Answer
	rand.Shuffle(len(q.Options), func(i, j int) {
		q.Options[i], q.Options[j] = q.Options[j], q.Options[i]
	})
	q.Answer = answer
}

// ShuffleQuiz shuffles every question's options independently. Run once per
// generated quiz.
func ShuffleQuiz(questions []QuizQuestion) {
	for i := range questions {
		ShuffleOptions(&questions[i])
	}
}
