package main

import (
	"context"
	"fmt"
	"time"

	"resume-extract-go/internal/parser"
	"resume-extract-go/internal/types"
)

// 处理分段命令：解码、归一化后打印各章节内容
func handleSegmentCommand() {
	absPath, data := readInputFile()
	fmt.Printf("准备分段文件: %s\n", absPath)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	text := decodeToText(ctx, absPath, data)
	normalized := parser.NormalizeText(text)
	sections := parser.SegmentSections(normalized)

	fmt.Printf("\n===== 识别到 %d 个章节 =====\n", len(sections))
	if content, ok := sections[types.SectionHeader]; ok {
		fmt.Printf("\n----- [%s] (%d 字符) -----\n", types.SectionHeader, len(content))
		fmt.Println(truncateForDisplay(content))
	}
	for _, sectionType := range types.SectionScanOrder {
		content, ok := sections[sectionType]
		if !ok {
			continue
		}
		fmt.Printf("\n----- [%s] (%d 字符) -----\n", sectionType, len(content))
		fmt.Println(truncateForDisplay(content))
	}
}
