package callRepository

import (
	"ProjectRiya/internal/api/call"
	"ProjectRiya/internal/entity"
	contextPkg "ProjectRiya/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sirupsen/logrus"
)

type CallDB struct {
	ID             sql.NullString `db:"id"`
	RoomName       sql.NullString `db:"room_name"`
	CustomerPhone  sql.NullString `db:"customer_phone"`
	Status         sql.NullString `db:"status"`
	Language       sql.NullString `db:"language"`
	TranscriptPath sql.NullString `db:"transcript_path"`
	ResultPath     sql.NullString `db:"result_path"`
	ResultURL      sql.NullString `db:"result_url"`
	Summary        sql.NullString `db:"summary"`
	CreatedAt      time.Time      `db:"created_at"`
	EndedAt        sql.NullTime   `db:"ended_at"`
}

func (r *callRepository) CreateCall(ctx context.Context, record entity.CallRecord) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":              record.ID,
		"room_name":       record.RoomName,
		"customer_phone":  record.CustomerPhone,
		"status":          record.Status.String(),
		"language":        record.Language,
		"transcript_path": record.TranscriptPath,
		"result_path":     record.ResultPath,
		"result_url":      record.ResultURL,
		"summary":         record.Summary,
		"created_at":      record.CreatedAt,
		"ended_at":        record.EndedAt,
	}

	query, args, err := sqlx.Named(queryCreateCall, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateCall")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating call")
		return err
	}

	return nil
}

func (r *callRepository) GetCallByID(ctx context.Context, id string) (entity.CallRecord, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var callDB CallDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetCallByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetCallByID named query preparation err")
		return entity.CallRecord{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&callDB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"call_id":    id,
			}).Warn("GetCallByID no rows found")
			return entity.CallRecord{}, call.ErrCallNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetCallByID execution err")
		return entity.CallRecord{}, err
	}

	return r.makeCallRecord(callDB), nil
}

func (r *callRepository) GetCalls(ctx context.Context, limit, offset int) ([]entity.CallRecord, int, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var callsList []CallDB
	var total int

	countQuery := r.q.Rebind(queryCountCalls)
	if err := r.q.QueryRowxContext(ctx, countQuery).Scan(&total); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountCalls execution err")
		return nil, 0, err
	}

	argsKV := map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	}

	query, args, err := sqlx.Named(queryGetCalls, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetCalls named query preparation err")
		return nil, 0, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &callsList, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetCalls execution err")
		return nil, 0, err
	}

	var records []entity.CallRecord
	for _, callDB := range callsList {
		records = append(records, r.makeCallRecord(callDB))
	}

	return records, total, nil
}

func (r *callRepository) UpdateCallStatus(ctx context.Context, id string, status entity.CallStatus, endedAt *time.Time) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":       id,
		"status":   status.String(),
		"ended_at": endedAt,
	}

	query, args, err := sqlx.Named(queryUpdateCallStatus, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateCallStatus named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateCallStatus execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateCallStatus rows affected err")
		return err
	}

	if rowsAffected == 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"call_id":    id,
		}).Warn("UpdateCallStatus no rows affected")
		return call.ErrCallNotFound
	}

	return nil
}

func (r *callRepository) UpdateCallArtifacts(ctx context.Context, record entity.CallRecord) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":              record.ID,
		"transcript_path": record.TranscriptPath,
		"result_path":     record.ResultPath,
		"result_url":      record.ResultURL,
		"summary":         record.Summary,
	}

	query, args, err := sqlx.Named(queryUpdateCallArtifacts, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateCallArtifacts named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateCallArtifacts execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateCallArtifacts rows affected err")
		return err
	}

	if rowsAffected == 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"call_id":    record.ID,
		}).Warn("UpdateCallArtifacts no rows affected")
		return call.ErrCallNotFound
	}

	return nil
}

func (r *callRepository) DeleteCall(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryDeleteCall, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteCall named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteCall execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteCall rows affected err")
		return err
	}

	if rowsAffected == 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"call_id":    id,
		}).Warn("DeleteCall no rows affected")
		return call.ErrCallNotFound
	}

	return nil
}

func (r *callRepository) makeCallRecord(callDB CallDB) entity.CallRecord {
	record := entity.CallRecord{
		ID:             callDB.ID.String,
		RoomName:       callDB.RoomName.String,
		CustomerPhone:  callDB.CustomerPhone.String,
		Status:         entity.CallStatus(callDB.Status.String),
		Language:       callDB.Language.String,
		TranscriptPath: callDB.TranscriptPath.String,
		ResultPath:     callDB.ResultPath.String,
		ResultURL:      callDB.ResultURL.String,
		Summary:        callDB.Summary.String,
		CreatedAt:      callDB.CreatedAt,
	}

	if callDB.EndedAt.Valid {
		endedAt := callDB.EndedAt.Time
		record.EndedAt = &endedAt
	}

	return record
}
