package services

import "ski-planner/models"

func ptr[T any](v T) *T { return &v }

func withPass(r models.Resort, price float64) models.Resort {
	r.Passes = map[string]models.PassPrice{models.FullDayPass: {Adult: ptr(price)}}
	return r
}
