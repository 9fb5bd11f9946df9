package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/starford/herald/internal/models"
)

// OpenQuests returns every quest that has not been completed, ordered
// by id.
func (db *DB) OpenQuests() ([]models.Quest, error) {
	rows, err := db.conn.Query(`
		SELECT id, creator, description, embarked
		FROM quests
		WHERE completed IS NULL
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("store: open quests: %w", err)
	}
	defer rows.Close()

	var out []models.Quest
	for rows.Next() {
		var q models.Quest
		if err := rows.Scan(&q.ID, &q.Creator, &q.Description, &q.Embarked); err != nil {
			return nil, fmt.Errorf("store: scan quest: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// OpenLabors returns every labor that has not been closed, ordered by
// id. The labor's creation event is reconstructed from the stored
// state so callers can filter on it.
func (db *DB) OpenLabors() ([]models.Labor, error) {
	rows, err := db.conn.Query(`
		SELECT id, quest_id, hostname, state, created_at
		FROM labors
		WHERE closed_at IS NULL
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("store: open labors: %w", err)
	}
	defer rows.Close()

	var out []models.Labor
	for rows.Next() {
		var (
			l       models.Labor
			questID sql.NullInt64
			state   string
			created time.Time
		)
		if err := rows.Scan(&l.ID, &questID, &l.Hostname, &state, &created); err != nil {
			return nil, fmt.Errorf("store: scan labor: %w", err)
		}
		if questID.Valid {
			l.QuestID = int(questID.Int64)
		} else {
			l.QuestID = models.NoQuestID
		}
		l.CreationEvent = models.Event{
			Hostname:  l.Hostname,
			EventType: models.EventType{Category: "system-maintenance", State: state},
			Timestamp: created,
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// AddQuest inserts a new open quest and returns its id.
func (db *DB) AddQuest(creator, description string) (int, error) {
	res, err := db.conn.Exec(
		`INSERT INTO quests (creator, description) VALUES (?, ?)`,
		creator, description,
	)
	if err != nil {
		return 0, fmt.Errorf("store: add quest: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: quest id: %w", err)
	}
	return int(id), nil
}

// AddLabor inserts a new open labor. questID 0 records a labor with no
// associated quest (quest_id stays NULL).
func (db *DB) AddLabor(questID int, hostname, state string) (int, error) {
	var quest sql.NullInt64
	if questID != models.NoQuestID {
		quest = sql.NullInt64{Int64: int64(questID), Valid: true}
	}
	res, err := db.conn.Exec(
		`INSERT INTO labors (quest_id, hostname, state) VALUES (?, ?, ?)`,
		quest, hostname, state,
	)
	if err != nil {
		return 0, fmt.Errorf("store: add labor: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: labor id: %w", err)
	}
	return int(id), nil
}

// CloseLabor marks a labor as closed, removing it from future snapshots.
func (db *DB) CloseLabor(id int) error {
	_, err := db.conn.Exec(`UPDATE labors SET closed_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: close labor: %w", err)
	}
	return nil
}

// CompleteQuest marks a quest as completed, removing it from future
// snapshots.
func (db *DB) CompleteQuest(id int) error {
	_, err := db.conn.Exec(`UPDATE quests SET completed = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: complete quest: %w", err)
	}
	return nil
}
