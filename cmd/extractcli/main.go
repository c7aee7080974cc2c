package main

import (
	"flag"
	"fmt"
	"os"
)

// 命令行参数定义
var (
	inputFile = flag.String("file", "", "简历文件路径，支持PDF和纯文本 (必填)")
	maxLen    = flag.Int("maxlen", 1000, "显示的文本最大长度，设为-1显示全部")
	command   = flag.String("cmd", "profile", "执行的命令: decode=仅解码文本, segment=分段, profile=完整画像抽取")
)

func main() {
	flag.Parse()

	switch *command {
	case "decode":
		handleDecodeCommand()
	case "segment":
		handleSegmentCommand()
	case "profile":
		handleProfileCommand()
	default:
		fmt.Printf("错误: 未知命令 '%s'。支持的命令: decode, segment, profile\n", *command)
		flag.Usage()
		os.Exit(1)
	}
}
