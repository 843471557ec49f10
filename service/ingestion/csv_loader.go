/*
 * @module service/ingestion/csv_loader
 * @description CSV报表批量装载器，支持UTF-8与GBK编码，产出规范化数据集
 * @architecture 分层架构 - 数据接入层
 * @documentReference ai_docs/submission_ingestion_req.md
 * @stateFlow 文件读取 -> 编码转换 -> 表头规范化 -> 单元格类型推断 -> 数据集
 * @rules 首行为表头；空单元格为null；可解析为数值的单元格转为float64，其余保留字符串；
 *        仅批量装载，不做流式/增量接入
 * @dependencies golang.org/x/text
 * @refs service/scheduler, service/validation_service.go
 */

package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"ibs-validation-service/service/dataset"
)

// CSVOptions CSV装载选项
type CSVOptions struct {
	// Encoding 源文件编码：空或utf-8按原样读取，gbk经转码读取
	Encoding string
}

// LoadCSV 从文件装载CSV为数据集
func LoadCSV(path string, opts CSVOptions) (*dataset.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开CSV文件失败: %w", err)
	}
	defer file.Close()

	ds, err := ReadCSV(file, opts)
	if err != nil {
		return nil, fmt.Errorf("解析CSV文件 %s 失败: %w", path, err)
	}
	return ds, nil
}

// ReadCSV 从读取器装载CSV为数据集，首行作为表头
func ReadCSV(r io.Reader, opts CSVOptions) (*dataset.Dataset, error) {
	switch strings.ToLower(opts.Encoding) {
	case "", "utf-8", "utf8":
	case "gbk":
		r = transform.NewReader(r, simplifiedchinese.GBK.NewDecoder())
	default:
		return nil, fmt.Errorf("不支持的文件编码: %s", opts.Encoding)
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("CSV文件为空")
	}
	if err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}

	var rows []dataset.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("读取数据行失败: %w", err)
		}
		row := make(dataset.Row, len(header))
		for i, col := range header {
			if i >= len(record) {
				row[col] = nil
				continue
			}
			row[col] = parseCell(record[i])
		}
		rows = append(rows, row)
	}
	return dataset.New(rows), nil
}

// parseCell 单元格类型推断：空为null，数值转float64，其余保留字符串
func parseCell(cell string) interface{} {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil
	}
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return v
	}
	return trimmed
}
