package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"scmdb/internal/store"
)

// Exporter 样本集目录导出器
// 输出一个包含样本集总览与各样本集设置目录的工作簿
type Exporter struct {
	store *store.Store
}

// NewExporter 创建导出器
func NewExporter(s *store.Store) *Exporter {
	return &Exporter{store: s}
}

// Export 导出 Excel
func (e *Exporter) Export() (*excelize.File, error) {
	f := excelize.NewFile()

	if err := e.fillEnsembleSheet(f); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := e.fillSettingsSheet(f); err != nil {
		_ = f.Close()
		return nil, err
	}

	// 删掉 excelize 默认创建的 Sheet1
	_ = f.DeleteSheet("Sheet1")
	f.SetActiveSheet(0)
	return f, nil
}

func (e *Exporter) fillEnsembleSheet(f *excelize.File) error {
	const sheet = "Ensembles"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := []any{"ID", "名称", "公开", "snATAC", "基因数", "描述"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	ensembles, err := e.store.ListEnsembles(false)
	if err != nil {
		return err
	}

	for i, ens := range ensembles {
		geneCount, err := e.store.CountGenes(ens.EnsembleID)
		if err != nil {
			geneCount = 0
		}
		row := []any{
			ens.EnsembleID,
			ens.EnsembleName,
			yesNo(ens.PublicAccess),
			yesNo(ens.SnATACAvailable),
			geneCount,
			ens.Description,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

func (e *Exporter) fillSettingsSheet(f *excelize.File) error {
	const sheet = "Settings"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := []any{"样本集", "类型", "设置名", "聚类数"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	ensembles, err := e.store.ListEnsembles(false)
	if err != nil {
		return err
	}

	rowNo := 2
	writeRow := func(row []any) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNo)
		if err != nil {
			return fmt.Errorf("failed to compute cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
		rowNo++
		return nil
	}

	for _, ens := range ensembles {
		tsne, err := e.store.ListTSNESettings(ens.EnsembleID)
		if err != nil {
			return err
		}
		for _, name := range tsne {
			if err := writeRow([]any{ens.EnsembleName, "tsne", name, ""}); err != nil {
				return err
			}
		}

		snatac, err := e.store.ListSnATACSettings(ens.EnsembleID)
		if err != nil {
			return err
		}
		for _, name := range snatac {
			if err := writeRow([]any{ens.EnsembleName, "snatac", name, ""}); err != nil {
				return err
			}
		}

		clustering, err := e.store.ListClusteringSettings(ens.EnsembleID)
		if err != nil {
			return err
		}
		for _, cs := range clustering {
			if err := writeRow([]any{ens.EnsembleName, "clustering", cs.Name, cs.ClusterCount}); err != nil {
				return err
			}
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "是"
	}
	return "否"
}
