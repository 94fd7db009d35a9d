package service

import (
	"context"

	"go.uber.org/zap"

	"exercise-forge/internal/contract"
	"exercise-forge/internal/domain"
	"exercise-forge/internal/dto"
	"exercise-forge/internal/logger"
	"exercise-forge/internal/normalize"
	"exercise-forge/internal/validation"
)

// ExerciseService generates normalized exercises and grades answers to them.
type ExerciseService interface {
	GenerateMultipleChoice(ctx context.Context, sessionID string, req *dto.MultipleChoiceRequest) (*dto.MultipleChoiceResponse, error)
	GenerateGapFill(ctx context.Context, sessionID string, req *dto.GapFillRequest) (*dto.GapFillResponse, error)
	GradeMultipleChoice(req *dto.GradeMultipleChoiceRequest) (*dto.GradeResponse, error)
	GradeGapFill(req *dto.GradeGapFillRequest) (*dto.GradeResponse, error)
}

type exerciseService struct {
	submitter domain.ExerciseSubmitter
	tracker   SubmissionTracker
	validator *validation.Validator
}

func NewExerciseService(submitter domain.ExerciseSubmitter, tracker SubmissionTracker) ExerciseService {
	if tracker == nil {
		tracker = NewSubmissionTracker(nil, nil)
	}
	return &exerciseService{
		submitter: submitter,
		tracker:   tracker,
		validator: validation.NewValidator(),
	}
}

func (s *exerciseService) GenerateMultipleChoice(ctx context.Context, sessionID string, req *dto.MultipleChoiceRequest) (*dto.MultipleChoiceResponse, error) {
	exReq, err := domain.NewExerciseRequest(string(domain.KindMultipleChoice), req.KnowledgePoint, req.Count)
	if err != nil {
		return nil, err
	}

	sub, payload, err := s.submit(ctx, sessionID, exReq)
	if err != nil {
		return nil, err
	}

	questions, normErr := normalize.MultipleChoice(payload, exReq.DesiredCount)
	if err := s.finish(ctx, sessionID, sub, normErr); err != nil {
		return nil, err
	}
	if len(questions) != exReq.DesiredCount {
		logger.Get().Warn("model returned a different number of questions",
			zap.String("submission_id", sub.ID),
			zap.Int("expected", exReq.DesiredCount),
			zap.Int("actual", len(questions)))
	}

	return &dto.MultipleChoiceResponse{SubmissionID: sub.ID, State: sub.State, Questions: questions}, nil
}

func (s *exerciseService) GenerateGapFill(ctx context.Context, sessionID string, req *dto.GapFillRequest) (*dto.GapFillResponse, error) {
	exReq, err := domain.NewExerciseRequest(string(domain.KindGapFill), req.KnowledgePoint, 0)
	if err != nil {
		return nil, err
	}

	sub, payload, err := s.submit(ctx, sessionID, exReq)
	if err != nil {
		return nil, err
	}

	exercise, normErr := normalize.GapFill(payload)
	if err := s.finish(ctx, sessionID, sub, normErr); err != nil {
		return nil, err
	}

	return &dto.GapFillResponse{SubmissionID: sub.ID, State: sub.State, Exercise: exercise}, nil
}

// submit runs the request phase. On failure the submission is already finished.
func (s *exerciseService) submit(ctx context.Context, sessionID string, req domain.ExerciseRequest) (*domain.Submission, domain.RawModelPayload, error) {
	l := logger.Get()

	sub, err := s.tracker.Begin(ctx, sessionID, req)
	if err != nil {
		return nil, domain.RawModelPayload{}, err
	}

	payload, err := s.submitter.Submit(ctx, req)
	if err != nil {
		if advErr := sub.Fail(err); advErr != nil {
			l.Error("submission state machine rejected failure", zap.String("submission_id", sub.ID), zap.Error(advErr))
		}
		l.Warn("exercise submission failed",
			zap.String("submission_id", sub.ID),
			zap.String("type", string(req.Kind)),
			zap.String("state", string(sub.State)),
			zap.Error(err))
		if finErr := s.tracker.Finish(ctx, sessionID, sub); finErr != nil {
			return nil, domain.RawModelPayload{}, finErr
		}
		return nil, domain.RawModelPayload{}, err
	}

	if err := sub.Advance(domain.StateNormalizing); err != nil {
		return nil, domain.RawModelPayload{}, err
	}

	report, err := contract.Check(req.Kind, payload)
	switch {
	case err != nil:
		l.Warn("contract check could not run", zap.String("submission_id", sub.ID), zap.Error(err))
	case !report.Valid:
		l.Warn("model payload departs from contract, repairing",
			zap.String("submission_id", sub.ID),
			zap.String("type", string(req.Kind)),
			zap.Strings("violations", report.Errors))
	}

	return sub, payload, nil
}

// finish moves the submission to its terminal state and checks it is still current.
// A superseded error wins over the normalization outcome.
func (s *exerciseService) finish(ctx context.Context, sessionID string, sub *domain.Submission, normErr error) error {
	next := domain.StateReady
	if normErr != nil {
		next = domain.StateFromError(normErr)
	}
	if err := sub.Advance(next); err != nil {
		return err
	}
	if err := s.tracker.Finish(ctx, sessionID, sub); err != nil {
		return err
	}
	return normErr
}

func (s *exerciseService) GradeMultipleChoice(req *dto.GradeMultipleChoiceRequest) (*dto.GradeResponse, error) {
	if errs := s.validator.ValidateGradeMultipleChoice(req.Questions, req.Answers); len(errs) > 0 {
		return nil, errs
	}
	return dto.NewGradeResponse(domain.GradeMultipleChoice(req.Questions, req.Answers)), nil
}

func (s *exerciseService) GradeGapFill(req *dto.GradeGapFillRequest) (*dto.GradeResponse, error) {
	if errs := s.validator.ValidateGradeGapFill(req.Exercise, req.Answers); len(errs) > 0 {
		return nil, errs
	}
	return dto.NewGradeResponse(domain.GradeGapFill(req.Exercise, req.Answers)), nil
}
