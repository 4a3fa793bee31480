package usecase

import "errors"

var (
	ErrInvalidInput             = errors.New("invalid input")
	ErrInternal                 = errors.New("internal error")
	ErrRepositoryFailure        = errors.New("repository failure")
	ErrEntityNotFound           = errors.New("entity not found")
	ErrAlreadyExists            = errors.New("entity already exists")
	ErrRecommendationInProgress = errors.New("recommendation already in progress for entity")
)
