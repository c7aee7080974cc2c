package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"resume-extract-go/internal/parser"
)

var decodeSaveFile = flag.String("decode-save", "", "保存解码后的文本到文件")

// readInputFile 读取命令行指定的简历文件，失败时直接退出进程。
func readInputFile() (string, []byte) {
	if *inputFile == "" {
		fmt.Println("错误: 必须通过 -file 参数提供简历文件路径。")
		flag.Usage()
		os.Exit(1)
	}

	absPath, err := filepath.Abs(*inputFile)
	if err != nil {
		fmt.Printf("无法获取文件的绝对路径: %v\n", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		fmt.Printf("无法读取文件 %s: %v\n", absPath, err)
		os.Exit(1)
	}
	return absPath, data
}

// decodeToText 把简历文件字节解码为纯文本。
func decodeToText(ctx context.Context, absPath string, data []byte) string {
	extractor, err := parser.NewDocumentTextExtractor(ctx)
	if err != nil {
		fmt.Printf("创建文档解码器失败: %v\n", err)
		os.Exit(1)
	}

	text, err := extractor.ExtractText(ctx, data, absPath)
	if err != nil {
		fmt.Printf("解码文档失败: %v\n", err)
		os.Exit(1)
	}
	return text
}

// truncateForDisplay 按 -maxlen 截断展示文本。
func truncateForDisplay(text string) string {
	if *maxLen >= 0 && len(text) > *maxLen {
		return text[:*maxLen] + "...(已截断，使用 -maxlen 参数显示更多)"
	}
	return text
}

// 处理解码文本命令
func handleDecodeCommand() {
	absPath, data := readInputFile()
	fmt.Printf("准备解码文件: %s\n", absPath)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	startTime := time.Now()
	text := decodeToText(ctx, absPath, data)
	fmt.Printf("解码完成! 耗时: %v\n", time.Since(startTime))

	fmt.Printf("\n===== 解码的文本 (总计 %d 字符) =====\n", len(text))
	fmt.Println(truncateForDisplay(text))

	if *decodeSaveFile != "" {
		if err := os.WriteFile(*decodeSaveFile, []byte(text), 0644); err != nil {
			fmt.Printf("保存到文件失败: %v\n", err)
		} else {
			fmt.Printf("文本已保存到: %s\n", *decodeSaveFile)
		}
	}
}
