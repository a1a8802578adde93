package store

import (
	"database/sql"
	"fmt"

	"scmdb/internal/model"
)

// BatchInsertGenes 批量插入基因注释
func (s *Store) BatchInsertGenes(ensembleID int, genes []model.Gene) error {
	if len(genes) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO genes (
			ensemble_id, gene_id, gene_name,
			chrom, start_pos, end_pos, strand, gene_type
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ensemble_id, gene_id) DO UPDATE SET
			gene_name = excluded.gene_name,
			chrom = excluded.chrom,
			start_pos = excluded.start_pos,
			end_pos = excluded.end_pos,
			strand = excluded.strand,
			gene_type = excluded.gene_type
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, g := range genes {
		_, err := stmt.Exec(
			ensembleID, g.GeneID, g.GeneName,
			g.Chrom, g.Start, g.End, g.Strand, g.GeneType,
		)
		if err != nil {
			return fmt.Errorf("failed to insert gene: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SearchGenesByName 按名称前缀搜索基因
// SQLite 的 LIKE 对 ASCII 默认不区分大小写
func (s *Store) SearchGenesByName(ensembleID int, query string, limit int) ([]model.Gene, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT gene_id, gene_name, chrom, start_pos, end_pos, strand, gene_type
		FROM genes
		WHERE ensemble_id = ? AND gene_name LIKE ?
		ORDER BY gene_name
		LIMIT ?
	`, ensembleID, query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search genes: %w", err)
	}
	defer rows.Close()

	return scanGenes(rows)
}

// GetGeneByID 按基因 ID 获取注释，不存在时返回 (nil, nil)
// 传入的 ID 可能带版本号后缀（如 ENSMUSG00000026787.8），按去版本号匹配
func (s *Store) GetGeneByID(ensembleID int, geneID string) (*model.Gene, error) {
	var g model.Gene
	err := s.db.QueryRow(`
		SELECT gene_id, gene_name, chrom, start_pos, end_pos, strand, gene_type
		FROM genes
		WHERE ensemble_id = ? AND (gene_id = ? OR gene_id LIKE ?)
		LIMIT 1
	`, ensembleID, geneID, geneID+".%").Scan(
		&g.GeneID, &g.GeneName, &g.Chrom, &g.Start, &g.End, &g.Strand, &g.GeneType,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get gene: %w", err)
	}
	return &g, nil
}

// BatchInsertGeneModules 批量插入基因模块成员
func (s *Store) BatchInsertGeneModules(items []model.GeneModule) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO gene_modules (module_name, gene_id, gene_name)
		VALUES (?, ?, ?)
		ON CONFLICT(module_name, gene_id) DO UPDATE SET gene_name = excluded.gene_name
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, m := range items {
		if _, err := stmt.Exec(m.ModuleName, m.GeneID, m.GeneName); err != nil {
			return fmt.Errorf("failed to insert gene module: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListGeneModuleNames 全部基因模块名
func (s *Store) ListGeneModuleNames() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT module_name FROM gene_modules ORDER BY module_name")
	if err != nil {
		return nil, fmt.Errorf("failed to list gene modules: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan module name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GetGenesOfModule 指定模块的成员基因
func (s *Store) GetGenesOfModule(moduleName string) ([]model.GeneModule, error) {
	rows, err := s.db.Query(`
		SELECT module_name, gene_id, gene_name
		FROM gene_modules WHERE module_name = ?
		ORDER BY gene_name
	`, moduleName)
	if err != nil {
		return nil, fmt.Errorf("failed to get genes of module: %w", err)
	}
	defer rows.Close()

	items := make([]model.GeneModule, 0)
	for rows.Next() {
		var m model.GeneModule
		if err := rows.Scan(&m.ModuleName, &m.GeneID, &m.GeneName); err != nil {
			return nil, fmt.Errorf("failed to scan gene module: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// BatchInsertOrthologs 批量插入同源基因对
func (s *Store) BatchInsertOrthologs(items []model.Ortholog) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO orthologs (mmu_gene_id, hsa_gene_id) VALUES (?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, o := range items {
		if _, err := stmt.Exec(o.MmuGeneID, o.HsaGeneID); err != nil {
			return fmt.Errorf("failed to insert ortholog: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// FindOrthologs 按任一物种基因 ID 查同源对
func (s *Store) FindOrthologs(geneID string) ([]model.Ortholog, error) {
	rows, err := s.db.Query(`
		SELECT mmu_gene_id, hsa_gene_id
		FROM orthologs WHERE mmu_gene_id = ? OR hsa_gene_id = ?
	`, geneID, geneID)
	if err != nil {
		return nil, fmt.Errorf("failed to find orthologs: %w", err)
	}
	defer rows.Close()

	items := make([]model.Ortholog, 0)
	for rows.Next() {
		var o model.Ortholog
		if err := rows.Scan(&o.MmuGeneID, &o.HsaGeneID); err != nil {
			return nil, fmt.Errorf("failed to scan ortholog: %w", err)
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

// BatchInsertCorrGenes 批量插入基因相关性对
func (s *Store) BatchInsertCorrGenes(ensembleID int, items []model.CorrPair) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO corr_genes (ensemble_id, gene1, gene2, correlation)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(ensemble_id, gene1, gene2) DO UPDATE SET correlation = excluded.correlation
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range items {
		if _, err := stmt.Exec(ensembleID, p.Gene1, p.Gene2, p.Correlation); err != nil {
			return fmt.Errorf("failed to insert corr pair: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetCorrGenes 与目标基因相关性最高的基因，按相关系数降序取前 50
// 相关性表里的 gene1 可能带版本号后缀，按去版本号匹配；
// 名次在扫描时按降序位置赋值
func (s *Store) GetCorrGenes(ensembleID int, geneID string) ([]model.CorrGene, error) {
	rows, err := s.db.Query(`
		SELECT c.gene2, COALESCE(g.gene_name, ''), c.correlation
		FROM corr_genes c
		LEFT JOIN genes g ON g.ensemble_id = c.ensemble_id AND g.gene_id = c.gene2
		WHERE c.ensemble_id = ? AND (c.gene1 = ? OR c.gene1 LIKE ?)
		ORDER BY c.correlation DESC
		LIMIT 50
	`, ensembleID, geneID, geneID+".%")
	if err != nil {
		return nil, fmt.Errorf("failed to get corr genes: %w", err)
	}
	defer rows.Close()

	items := make([]model.CorrGene, 0)
	for rows.Next() {
		var cg model.CorrGene
		if err := rows.Scan(&cg.GeneID, &cg.GeneName, &cg.Correlation); err != nil {
			return nil, fmt.Errorf("failed to scan corr gene: %w", err)
		}
		cg.Rank = len(items) + 1
		items = append(items, cg)
	}
	return items, rows.Err()
}

// CountGenes 指定样本集的基因数
func (s *Store) CountGenes(ensembleID int) (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM genes WHERE ensemble_id = ?", ensembleID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count genes: %w", err)
	}
	return n, nil
}

func scanGenes(rows *sql.Rows) ([]model.Gene, error) {
	items := make([]model.Gene, 0)
	for rows.Next() {
		var g model.Gene
		if err := rows.Scan(&g.GeneID, &g.GeneName, &g.Chrom, &g.Start, &g.End, &g.Strand, &g.GeneType); err != nil {
			return nil, fmt.Errorf("failed to scan gene: %w", err)
		}
		items = append(items, g)
	}
	return items, rows.Err()
}
