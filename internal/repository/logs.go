package repository

import (
	"context"

	"formbae/coach-app/internal/domain"
)

func workoutLogFromRow(row []string) domain.WorkoutLog {
	return domain.WorkoutLog{
		LogID:         row[0],
		UserID:        row[1],
		Date:          row[2],
		PlanID:        row[3],
		PlanDayID:     row[4],
		CompletedFlag: cellBool(row[5]),
		Notes:         row[6],
	}
}

func workoutLogToRow(l domain.WorkoutLog) []string {
	return []string{
		l.LogID, l.UserID, l.Date, l.PlanID, l.PlanDayID,
		fmtBool(l.CompletedFlag), l.Notes,
	}
}

func (t *Tables) WorkoutLogs(ctx context.Context) ([]domain.WorkoutLog, error) {
	body, err := t.readBody(ctx, TableWorkoutLogs)
	if err != nil {
		return nil, err
	}
	logs := make([]domain.WorkoutLog, len(body))
	for i, row := range body {
		logs[i] = workoutLogFromRow(row)
	}
	return logs, nil
}

func (t *Tables) AppendWorkoutLog(ctx context.Context, l domain.WorkoutLog) error {
	return t.append(ctx, TableWorkoutLogs, workoutLogToRow(l))
}

func (t *Tables) ReplaceWorkoutLogs(ctx context.Context, logs []domain.WorkoutLog) error {
	body := make([][]string, len(logs))
	for i, l := range logs {
		body[i] = workoutLogToRow(l)
	}
	return t.overwriteBody(ctx, TableWorkoutLogs, body)
}

// --- SetLogs ---

func setLogFromRow(row []string) domain.SetLog {
	return domain.SetLog{
		LogID:      row[0],
		ExerciseID: row[1],
		SetNumber:  cellInt(row[2]),
		Reps:       cellInt(row[3]),
		Weight:     cellFloat(row[4]),
		RPE:        cellFloat(row[5]),
		PainFlag:   cellBool(row[6]),
	}
}

func setLogToRow(s domain.SetLog) []string {
	return []string{
		s.LogID, s.ExerciseID, fmtInt(s.SetNumber), fmtInt(s.Reps),
		fmtFloat(s.Weight), fmtFloat(s.RPE), fmtBool(s.PainFlag),
	}
}

func (t *Tables) SetLogs(ctx context.Context) ([]domain.SetLog, error) {
	body, err := t.readBody(ctx, TableSetLogs)
	if err != nil {
		return nil, err
	}
	sets := make([]domain.SetLog, len(body))
	for i, row := range body {
		sets[i] = setLogFromRow(row)
	}
	return sets, nil
}

func (t *Tables) AppendSetLogs(ctx context.Context, sets []domain.SetLog) error {
	rows := make([][]string, len(sets))
	for i, s := range sets {
		rows[i] = setLogToRow(s)
	}
	return t.append(ctx, TableSetLogs, rows...)
}

func (t *Tables) ReplaceSetLogs(ctx context.Context, sets []domain.SetLog) error {
	body := make([][]string, len(sets))
	for i, s := range sets {
		body[i] = setLogToRow(s)
	}
	return t.overwriteBody(ctx, TableSetLogs, body)
}

// --- BodyLogs ---

func bodyLogFromRow(row []string) domain.BodyLog {
	return domain.BodyLog{
		EntryID: row[0],
		UserID:  row[1],
		Date:    row[2],
		Weight:  cellFloat(row[3]),
		Chest:   cellFloat(row[4]),
		Waist:   cellFloat(row[5]),
		Biceps:  cellFloat(row[6]),
	}
}

func bodyLogToRow(b domain.BodyLog) []string {
	return []string{
		b.EntryID, b.UserID, b.Date,
		fmtFloat(b.Weight), fmtFloat(b.Chest), fmtFloat(b.Waist), fmtFloat(b.Biceps),
	}
}

func (t *Tables) BodyLogs(ctx context.Context) ([]domain.BodyLog, error) {
	body, err := t.readBody(ctx, TableBodyLogs)
	if err != nil {
		return nil, err
	}
	logs := make([]domain.BodyLog, len(body))
	for i, row := range body {
		logs[i] = bodyLogFromRow(row)
	}
	return logs, nil
}

func (t *Tables) AppendBodyLog(ctx context.Context, b domain.BodyLog) error {
	return t.append(ctx, TableBodyLogs, bodyLogToRow(b))
}

func (t *Tables) ReplaceBodyLogs(ctx context.Context, logs []domain.BodyLog) error {
	body := make([][]string, len(logs))
	for i, b := range logs {
		body[i] = bodyLogToRow(b)
	}
	return t.overwriteBody(ctx, TableBodyLogs, body)
}

// --- Messages ---

func messageFromRow(row []string) domain.Message {
	return domain.Message{
		MessageID:  row[0],
		UserID:     row[1],
		PlanID:     row[2],
		SenderRole: domain.Role(row[3]),
		Text:       row[4],
		CreatedAt:  cellTime(row[5]),
	}
}

func messageToRow(m domain.Message) []string {
	return []string{
		m.MessageID, m.UserID, m.PlanID, string(m.SenderRole),
		m.Text, fmtTime(m.CreatedAt),
	}
}

func (t *Tables) Messages(ctx context.Context) ([]domain.Message, error) {
	body, err := t.readBody(ctx, TableMessages)
	if err != nil {
		return nil, err
	}
	messages := make([]domain.Message, len(body))
	for i, row := range body {
		messages[i] = messageFromRow(row)
	}
	return messages, nil
}

func (t *Tables) AppendMessage(ctx context.Context, m domain.Message) error {
	return t.append(ctx, TableMessages, messageToRow(m))
}

func (t *Tables) ReplaceMessages(ctx context.Context, messages []domain.Message) error {
	body := make([][]string, len(messages))
	for i, m := range messages {
		body[i] = messageToRow(m)
	}
	return t.overwriteBody(ctx, TableMessages, body)
}
