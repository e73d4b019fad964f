package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

// 离线重置登录密码，忘记密码且无法通过页面操作时使用。
// 用法: go run reset_password.go <新密码> [密码库路径]
func main() {
	if len(os.Args) < 2 {
		fmt.Println("用法: go run reset_password.go <新密码> [密码库路径]")
		os.Exit(1)
	}

	newPassword := os.Args[1]
	username := "trader"

	dbPath := "./data/auth.db"
	if len(os.Args) > 2 {
		dbPath = os.Args[2]
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Printf("错误: 密码库文件不存在: %s\n", dbPath)
		os.Exit(1)
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=30000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		fmt.Printf("错误: 打开密码库失败: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		fmt.Printf("错误: 生成密码哈希失败: %v\n", err)
		os.Exit(1)
	}

	_, err = db.Exec(`
		INSERT INTO users (username, password_hash)
		VALUES (?, ?)
		ON CONFLICT(username) DO UPDATE SET password_hash = ?
	`, username, string(hash), string(hash))
	if err != nil {
		fmt.Printf("错误: 更新密码失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ 密码已重置\n")
	fmt.Printf("  用户名: %s\n", username)
	fmt.Printf("  密码库: %s\n", dbPath)
}
