package parser

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/codeready-toolchain/athena/pkg/models"
)

// ParseCSV reads a header row followed by one host per line. Unrecognized
// columns are preserved verbatim in metadata rather than dropped.
func ParseCSV(content string) models.ParseResult {
	result := models.ParseResult{SourceType: string(FormatCSV)}

	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("csv: %v", err))
		return result
	}
	if len(records) == 0 {
		result.Errors = append(result.Errors, "csv: no rows")
		return result
	}

	header := records[0]
	columns := make([]string, len(header))
	for i, col := range header {
		columns[i] = classifyColumn(col)
	}

	for rowIdx, row := range records[1:] {
		host := models.ParsedHost{Metadata: map[string]any{}, SSHPort: models.DefaultSSHPort}
		for i, raw := range row {
			if i >= len(columns) {
				break
			}
			value := strings.TrimSpace(raw)
			if value == "" {
				continue
			}
			switch columns[i] {
			case "hostname":
				host.Hostname = value
			case "ip":
				host.IP = value
			case "environment":
				host.Environment = value
			case "groups":
				host.Groups = splitCommaList(value)
			case "aliases":
				host.Aliases = splitCommaList(value)
			case "role":
				host.Role = value
			case "service":
				host.Service = value
			case "ssh_port":
				if port, err := strconv.Atoi(value); err == nil {
					host.SSHPort = port
				}
			default:
				host.Metadata[strings.TrimSpace(header[i])] = value
			}
		}
		if host.Hostname == "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("csv: row %d has no hostname column, skipped", rowIdx+2))
			continue
		}
		result.Hosts = append(result.Hosts, host)
	}

	return result
}
