package callRepository

const (
	queryCreateCall = `
		INSERT INTO calls (
			id, room_name, customer_phone, status, language,
			transcript_path, result_path, result_url, summary,
			created_at, ended_at
		) VALUES (
			:id, :room_name, :customer_phone, :status, :language,
			:transcript_path, :result_path, :result_url, :summary,
			:created_at, :ended_at
		)
	`

	queryGetCallByID = `
		SELECT
			id, room_name, customer_phone, status, language,
			transcript_path, result_path, result_url, summary,
			created_at, ended_at
		FROM calls
		WHERE id = :id
	`

	queryGetCalls = `
		SELECT
			id, room_name, customer_phone, status, language,
			transcript_path, result_path, result_url, summary,
			created_at, ended_at
		FROM calls
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountCalls = `
		SELECT COUNT(*)
		FROM calls
	`

	queryUpdateCallStatus = `
		UPDATE calls
		SET
			status = :status,
			ended_at = :ended_at
		WHERE id = :id
	`

	queryUpdateCallArtifacts = `
		UPDATE calls
		SET
			transcript_path = :transcript_path,
			result_path = :result_path,
			result_url = :result_url,
			summary = :summary
		WHERE id = :id
	`

	queryDeleteCall = `
		DELETE FROM calls
		WHERE id = :id
	`
)
