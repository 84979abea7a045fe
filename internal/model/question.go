package model

// QuestionList is an ordered learning guide for one topic.
type QuestionList []string
