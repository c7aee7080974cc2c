package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"resume-extract-go/internal/parser"
)

var (
	profileMinFields = flag.Int("profile-min-fields", parser.DefaultMinPopulatedFields, "画像判定为有效所需的最少非空字段数")
	profileSaveFile  = flag.String("profile-save", "", "保存画像JSON到文件")
)

// 处理画像抽取命令：跑完整流水线并输出JSON
func handleProfileCommand() {
	absPath, data := readInputFile()
	fmt.Printf("准备抽取文件: %s\n", absPath)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	text := decodeToText(ctx, absPath, data)

	pipeline := parser.NewProfilePipeline(
		parser.WithMinPopulatedFields(*profileMinFields),
	)

	startTime := time.Now()
	profile, err := pipeline.Extract(ctx, text)
	if err != nil {
		fmt.Printf("画像抽取失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("抽取完成! 耗时: %v, 非空字段数: %d\n", time.Since(startTime), profile.PopulatedFieldCount())

	output, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		fmt.Printf("序列化画像失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n===== 抽取的画像 =====")
	fmt.Println(string(output))

	if *profileSaveFile != "" {
		if err := os.WriteFile(*profileSaveFile, output, 0644); err != nil {
			fmt.Printf("保存到文件失败: %v\n", err)
		} else {
			fmt.Printf("画像已保存到: %s\n", *profileSaveFile)
		}
	}
}
