package callService

import (
	"ProjectRiya/internal/api/call"
	"ProjectRiya/internal/entity"
	contextPkg "ProjectRiya/pkg/context"
	jwtPkg "ProjectRiya/pkg/jwt"
	"ProjectRiya/pkg/livekit"
	"ProjectRiya/pkg/output"
	"ProjectRiya/pkg/survey"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	callLanguage  = "hinglish"
	roomClaimTTL  = 2 * time.Hour
	agentIdentity = "riya-agent"
)

func (s *callService) StartCall(ctx context.Context, req call.StartCallRequest) (*call.StartCallResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	callID := uuid.New().String()

	roomName := req.RoomName
	if roomName == "" {
		roomName = fmt.Sprintf("feedback-%s", callID[:8])
	}

	customerPhone := ""
	if req.CustomerPhone != "" {
		normalized, err := s.utils.NormalizePhoneNumber(req.CustomerPhone)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Rejected invalid customer phone number")
			return nil, call.ErrInvalidPhoneNumber
		}
		customerPhone = normalized
	}

	claimed, err := s.redis.ClaimRoom(ctx, roomName, callID, roomClaimTTL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to claim room")
		return nil, err
	}
	if !claimed {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"room":       roomName,
		}).Warn("Room already claimed by another call")
		return nil, call.ErrRoomBusy
	}

	repo, err := s.callRepo.NewClient(true)
	if err != nil {
		s.releaseRoom(roomName)
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}
	defer repo.Rollback()

	now := time.Now()
	record := entity.CallRecord{
		ID:            callID,
		RoomName:      roomName,
		CustomerPhone: customerPhone,
		Status:        entity.CallStatusInProgress,
		Language:      callLanguage,
		CreatedAt:     now,
	}

	if err := repo.Calls.CreateCall(ctx, record); err != nil {
		s.releaseRoom(roomName)
		return nil, call.ErrCallStartFailed
	}

	token, err := jwtPkg.NewRoomToken(roomName, agentIdentity, roomClaimTTL)
	if err != nil {
		s.releaseRoom(roomName)
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to mint room token")
		return nil, call.ErrCallStartFailed
	}

	session, err := s.dialer.Dial(ctx, roomName, token)
	if err != nil {
		s.releaseRoom(roomName)
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"room":       roomName,
			"error":      err.Error(),
		}).Error("Failed to join room")
		return nil, call.ErrRoomJoinFailed
	}

	if err := repo.Commit(); err != nil {
		_ = session.Close()
		s.releaseRoom(roomName)
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit call record")
		return nil, err
	}

	s.launchCall(record, session)

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"call_id":    callID,
		"room":       roomName,
	}).Info("Call started")

	return &call.StartCallResponse{
		CallID:    callID,
		RoomName:  roomName,
		Token:     token,
		Status:    record.Status.String(),
		CreatedAt: now,
	}, nil
}

// launchCall hands the joined room to a turn controller on its own
// goroutine. The call outlives the HTTP request that started it.
func (s *callService) launchCall(record entity.CallRecord, session livekit.IRoomSession) {
	baseCtx := contextPkg.WithCallID(context.Background(), record.ID)
	runCtx, cancel := context.WithCancel(baseCtx)

	surveySession := survey.NewSession(record.ID, survey.DefaultScript())
	controller := newTurnController(s.log, session, surveySession, s.extractor,
		func(line string, snapshot entity.CallSnapshot) {
			s.publishLine(baseCtx, record.ID, line, snapshot)
		})

	s.mu.Lock()
	s.running[record.ID] = &runningCall{cancel: cancel}
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		s.runCall(runCtx, record, surveySession, controller)
	}()
}

func (s *callService) runCall(ctx context.Context, record entity.CallRecord, surveySession *survey.Session, controller *turnController) {
	status := controller.Run(ctx)

	s.mu.Lock()
	delete(s.running, record.ID)
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"call_id": record.ID,
		"room":    record.RoomName,
		"status":  status.String(),
	}).Info("Call finished")

	s.persistOutcome(record, surveySession, status)
}

// persistOutcome writes the transcript before the result so the result
// always points at an existing file, then stores the rest best-effort.
func (s *callService) persistOutcome(record entity.CallRecord, surveySession *survey.Session, status entity.CallStatus) {
	ctx, cancel := context.WithTimeout(contextPkg.WithCallID(context.Background(), record.ID), 60*time.Second)
	defer cancel()

	logger := s.log.WithFields(logrus.Fields{
		"call_id": record.ID,
	})

	transcript := surveySession.Transcript()
	answers := surveySession.Answers()

	transcriptPath, err := s.writer.SaveTranscript(record.ID, transcript)
	if err != nil {
		logger.WithField("error", err.Error()).Error("Failed to save transcript")
		transcriptPath = s.writer.TranscriptPath(record.ID)
	}

	resultPath, err := s.writer.SaveResult(record.ID, answers, transcriptPath)
	if err != nil {
		logger.WithField("error", err.Error()).Error("Failed to save result")
		resultPath = ""
	}

	record.TranscriptPath = transcriptPath
	record.ResultPath = resultPath

	if s.summarizer != nil && status == entity.CallStatusCompleted {
		summary, err := s.summarizer.SummarizeFeedback(ctx, answers, transcript)
		if err != nil {
			logger.WithField("error", err.Error()).Warn("Failed to summarize feedback")
		} else {
			record.Summary = summary
		}
	}

	if s.s3Client != nil && resultPath != "" {
		data, err := os.ReadFile(resultPath)
		if err != nil {
			logger.WithField("error", err.Error()).Warn("Failed to read result for upload")
		} else {
			location, err := s.s3Client.UploadBytes(fmt.Sprintf("results/%s.json", record.ID), data, "application/json")
			if err != nil {
				logger.WithField("error", err.Error()).Warn("Failed to upload result")
			} else {
				record.ResultURL = location
			}
		}
	}

	s.storeOutcome(ctx, record, status)

	if s.whatsapp != nil && s.whatsapp.IsConnected() && s.alertNumber != "" && record.Summary != "" {
		if err := s.whatsapp.SendFeedbackAlert(ctx, s.alertNumber, record.ID, record.Summary); err != nil {
			logger.WithField("error", err.Error()).Warn("Failed to send feedback alert")
		}
	}

	if err := s.redis.DeleteCallState(ctx, record.ID); err != nil {
		logger.WithField("error", err.Error()).Debug("Failed to delete call state")
	}
	s.releaseRoom(record.RoomName)
}

func (s *callService) storeOutcome(ctx context.Context, record entity.CallRecord, status entity.CallStatus) {
	logger := s.log.WithFields(logrus.Fields{
		"call_id": record.ID,
	})

	repo, err := s.callRepo.NewClient(true)
	if err != nil {
		logger.WithField("error", err.Error()).Error("Failed to create repository client")
		return
	}
	defer repo.Rollback()

	endedAt := time.Now()
	if err := repo.Calls.UpdateCallStatus(ctx, record.ID, status, &endedAt); err != nil {
		logger.WithField("error", err.Error()).Error("Failed to update call status")
		return
	}

	if err := repo.Calls.UpdateCallArtifacts(ctx, record); err != nil {
		logger.WithField("error", err.Error()).Error("Failed to update call artifacts")
		return
	}

	if err := repo.Commit(); err != nil {
		logger.WithField("error", err.Error()).Error("Failed to commit call outcome")
	}
}

// publishLine feeds live monitors. Failures only cost visibility, so
// they are logged and ignored.
func (s *callService) publishLine(ctx context.Context, callID string, line string, snapshot entity.CallSnapshot) {
	if err := s.redis.PublishTranscriptLine(ctx, callID, line); err != nil {
		s.log.WithFields(logrus.Fields{
			"call_id": callID,
			"error":   err.Error(),
		}).Debug("Failed to publish transcript line")
	}

	state, err := json.Marshal(snapshot)
	if err != nil {
		return
	}

	if err := s.redis.SetCallState(ctx, callID, string(state), roomClaimTTL); err != nil {
		s.log.WithFields(logrus.Fields{
			"call_id": callID,
			"error":   err.Error(),
		}).Debug("Failed to store call state")
	}
}

func (s *callService) GetCalls(ctx context.Context, page, limit int) ([]entity.CallRecord, int, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.callRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, 0, err
	}

	offset := (page - 1) * limit
	records, total, err := repo.Calls.GetCalls(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (s *callService) GetCall(ctx context.Context, callID string) (*call.CallResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.callRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	record, err := repo.Calls.GetCallByID(ctx, callID)
	if err != nil {
		return nil, err
	}

	if s.s3Client != nil && record.ResultURL != "" {
		presigned, err := s.s3Client.PresignUrl(record.ResultURL)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"call_id":    callID,
				"error":      err.Error(),
			}).Warn("Failed to presign result URL")
		} else {
			record.ResultURL = presigned
		}
	}

	resp := &call.CallResponse{Call: record}

	if s.isRunning(callID) {
		state, err := s.redis.GetCallState(ctx, callID)
		if err == nil && state != "" {
			var snapshot entity.CallSnapshot
			if err := json.Unmarshal([]byte(state), &snapshot); err == nil {
				resp.Live = &snapshot
			}
		}
	}

	return resp, nil
}

func (s *callService) GetCallResult(ctx context.Context, callID string) (*output.Result, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.callRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	if _, err := repo.Calls.GetCallByID(ctx, callID); err != nil {
		return nil, err
	}

	result, err := s.writer.ReadResult(callID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"call_id":    callID,
			"error":      err.Error(),
		}).Warn("Call result not readable")
		return nil, err
	}

	return result, nil
}

func (s *callService) EndCall(ctx context.Context, callID string) error {
	requestID := contextPkg.GetRequestID(ctx)

	s.mu.Lock()
	rc, ok := s.running[callID]
	s.mu.Unlock()

	if ok {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"call_id":    callID,
		}).Info("Ending running call")
		rc.cancel()
		return nil
	}

	repo, err := s.callRepo.NewClient(true)
	if err != nil {
		return err
	}
	defer repo.Rollback()

	record, err := repo.Calls.GetCallByID(ctx, callID)
	if err != nil {
		return err
	}

	if record.Status != entity.CallStatusInProgress {
		return call.ErrCallAlreadyEnded
	}

	// stale row from a crashed run, close it out
	now := time.Now()
	if err := repo.Calls.UpdateCallStatus(ctx, callID, entity.CallStatusEnded, &now); err != nil {
		return err
	}

	return repo.Commit()
}

func (s *callService) DeleteCall(ctx context.Context, callID string) error {
	requestID := contextPkg.GetRequestID(ctx)

	if s.isRunning(callID) {
		return call.ErrCallStillRunning
	}

	repo, err := s.callRepo.NewClient(true)
	if err != nil {
		return err
	}
	defer repo.Rollback()

	record, err := repo.Calls.GetCallByID(ctx, callID)
	if err != nil {
		return err
	}

	if err := repo.Calls.DeleteCall(ctx, callID); err != nil {
		return err
	}

	if err := repo.Commit(); err != nil {
		return err
	}

	s.removeArtifacts(ctx, record)

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"call_id":    callID,
	}).Info("Call deleted")

	return nil
}

func (s *callService) removeArtifacts(ctx context.Context, record entity.CallRecord) {
	logger := s.log.WithFields(logrus.Fields{
		"call_id": record.ID,
	})

	for _, path := range []string{record.TranscriptPath, record.ResultPath} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.WithField("error", err.Error()).Warn("Failed to remove artifact file")
		}
	}

	if s.s3Client != nil && record.ResultURL != "" {
		if err := s.s3Client.DeleteFile(record.ResultURL); err != nil {
			logger.WithField("error", err.Error()).Warn("Failed to delete uploaded result")
		}
	}

	if err := s.redis.DeleteCallState(ctx, record.ID); err != nil {
		logger.WithField("error", err.Error()).Debug("Failed to delete call state")
	}
}

func (s *callService) TestExtraction(ctx context.Context, req call.ExtractionTestRequest) (*call.ExtractionTestResponse, error) {
	var value interface{}

	switch req.AnswerType {
	case string(survey.AnswerTypeRating):
		value = s.extractor.ExtractRating(req.Text)
	case string(survey.AnswerTypeYesNo):
		value = s.extractor.ExtractYesNo(req.Text)
	case string(survey.AnswerTypeFreeText):
		value = s.extractor.ExtractFreeText(req.Text)
	case "consent":
		value = s.extractor.IsAffirmative(req.Text)
	default:
		return nil, call.ErrInvalidAnswerType
	}

	return &call.ExtractionTestResponse{
		Input:      req.Text,
		AnswerType: req.AnswerType,
		Value:      value,
	}, nil
}

// Shutdown cancels every running call and waits for their outcomes to
// be persisted, bounded by ctx.
func (s *callService) Shutdown(ctx context.Context) {
	s.mu.Lock()
	for id, rc := range s.running {
		s.log.WithFields(logrus.Fields{
			"call_id": id,
		}).Info("Cancelling call for shutdown")
		rc.cancel()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn("Shutdown timed out waiting for running calls")
	}
}

func (s *callService) isRunning(callID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.running[callID]
	return ok
}

func (s *callService) releaseRoom(roomName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.redis.ReleaseRoom(ctx, roomName); err != nil {
		s.log.WithFields(logrus.Fields{
			"room":  roomName,
			"error": err.Error(),
		}).Warn("Failed to release room claim")
	}
}
