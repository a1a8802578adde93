package store

import (
	"database/sql"
	"fmt"

	"scmdb/internal/model"
)

// ListEnsembles 获取样本集列表
// publicOnly 为 true 时仅返回公开样本集（未登录访客的导航栏）
func (s *Store) ListEnsembles(publicOnly bool) ([]model.Ensemble, error) {
	query := `
		SELECT ensemble_id, ensemble_name, public_access, description, snatac_available
		FROM ensembles
	`
	if publicOnly {
		query += " WHERE public_access = 1"
	}
	query += " ORDER BY ensemble_id"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list ensembles: %w", err)
	}
	defer rows.Close()

	items := make([]model.Ensemble, 0)
	for rows.Next() {
		var e model.Ensemble
		var public, snatac int
		if err := rows.Scan(&e.EnsembleID, &e.EnsembleName, &public, &e.Description, &snatac); err != nil {
			return nil, fmt.Errorf("failed to scan ensemble: %w", err)
		}
		e.PublicAccess = public != 0
		e.SnATACAvailable = snatac != 0
		items = append(items, e)
	}
	return items, rows.Err()
}

// GetEnsembleByName 按名称获取样本集
// 不存在时返回 (nil, nil)
func (s *Store) GetEnsembleByName(name string) (*model.Ensemble, error) {
	var e model.Ensemble
	var public, snatac int
	err := s.db.QueryRow(`
		SELECT ensemble_id, ensemble_name, public_access, description, snatac_available
		FROM ensembles WHERE ensemble_name = ?
	`, name).Scan(&e.EnsembleID, &e.EnsembleName, &public, &e.Description, &snatac)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ensemble: %w", err)
	}
	e.PublicAccess = public != 0
	e.SnATACAvailable = snatac != 0
	return &e, nil
}

// UpsertEnsemble 插入或更新样本集
func (s *Store) UpsertEnsemble(e model.Ensemble) error {
	_, err := s.db.Exec(`
		INSERT INTO ensembles (ensemble_id, ensemble_name, public_access, description, snatac_available)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(ensemble_id) DO UPDATE SET
			ensemble_name = excluded.ensemble_name,
			public_access = excluded.public_access,
			description = excluded.description,
			snatac_available = excluded.snatac_available
	`, e.EnsembleID, e.EnsembleName, boolToInt(e.PublicAccess), e.Description, boolToInt(e.SnATACAvailable))
	if err != nil {
		return fmt.Errorf("failed to upsert ensemble: %w", err)
	}
	return nil
}

// CountEnsembles 样本集总数
func (s *Store) CountEnsembles() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM ensembles").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count ensembles: %w", err)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
