package store

import (
	"fmt"

	"scmdb/internal/model"
)

// ListTSNESettings 指定样本集的 t-SNE 设置名目录
// 按写入顺序（rowid）返回，解析和排序交由 settings 包
func (s *Store) ListTSNESettings(ensembleID int) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT setting_name FROM tsne_settings
		WHERE ensemble_id = ? ORDER BY rowid
	`, ensembleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tsne settings: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan setting name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ListClusteringSettings 指定样本集的聚类设置目录（含聚类数）
func (s *Store) ListClusteringSettings(ensembleID int) ([]model.ClusteringSetting, error) {
	rows, err := s.db.Query(`
		SELECT setting_name, cluster_count FROM clustering_settings
		WHERE ensemble_id = ? ORDER BY rowid
	`, ensembleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list clustering settings: %w", err)
	}
	defer rows.Close()

	items := make([]model.ClusteringSetting, 0)
	for rows.Next() {
		var cs model.ClusteringSetting
		if err := rows.Scan(&cs.Name, &cs.ClusterCount); err != nil {
			return nil, fmt.Errorf("failed to scan clustering setting: %w", err)
		}
		items = append(items, cs)
	}
	return items, rows.Err()
}

// ListSnATACSettings 指定样本集的 snATAC t-SNE 设置名目录
func (s *Store) ListSnATACSettings(ensembleID int) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT setting_name FROM snatac_settings
		WHERE ensemble_id = ? ORDER BY rowid
	`, ensembleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snatac settings: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan setting name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ReplaceTSNESettings 整体替换指定样本集的 t-SNE 设置目录
func (s *Store) ReplaceTSNESettings(ensembleID int, names []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM tsne_settings WHERE ensemble_id = ?", ensembleID); err != nil {
		return fmt.Errorf("failed to clear tsne settings: %w", err)
	}

	// 种子里重复的设置名只保留第一条
	stmt, err := tx.Prepare("INSERT OR IGNORE INTO tsne_settings (ensemble_id, setting_name) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, name := range names {
		if _, err := stmt.Exec(ensembleID, name); err != nil {
			return fmt.Errorf("failed to insert tsne setting: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ReplaceSnATACSettings 整体替换指定样本集的 snATAC t-SNE 设置目录
func (s *Store) ReplaceSnATACSettings(ensembleID int, names []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM snatac_settings WHERE ensemble_id = ?", ensembleID); err != nil {
		return fmt.Errorf("failed to clear snatac settings: %w", err)
	}

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO snatac_settings (ensemble_id, setting_name) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, name := range names {
		if _, err := stmt.Exec(ensembleID, name); err != nil {
			return fmt.Errorf("failed to insert snatac setting: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ReplaceClusteringSettings 整体替换指定样本集的聚类设置目录
func (s *Store) ReplaceClusteringSettings(ensembleID int, items []model.ClusteringSetting) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM clustering_settings WHERE ensemble_id = ?", ensembleID); err != nil {
		return fmt.Errorf("failed to clear clustering settings: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO clustering_settings (ensemble_id, setting_name, cluster_count)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, cs := range items {
		if _, err := stmt.Exec(ensembleID, cs.Name, cs.ClusterCount); err != nil {
			return fmt.Errorf("failed to insert clustering setting: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
