package web

import (
	"path/filepath"
	"testing"
)

func newTestPasswordManager(t *testing.T) *PasswordManager {
	t.Helper()
	pm, err := NewPasswordManager(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("创建密码管理器失败: %v", err)
	}
	t.Cleanup(func() { pm.Close() })
	return pm
}

func TestPasswordManagerSetAndVerify(t *testing.T) {
	pm := newTestPasswordManager(t)

	has, err := pm.HasPassword("trader")
	if err != nil {
		t.Fatalf("查询密码状态失败: %v", err)
	}
	if has {
		t.Error("新库不应已有密码")
	}

	if err := pm.SetPassword("trader", "correct-horse-battery"); err != nil {
		t.Fatalf("设置密码失败: %v", err)
	}

	has, err = pm.HasPassword("trader")
	if err != nil {
		t.Fatalf("查询密码状态失败: %v", err)
	}
	if !has {
		t.Error("设置后应已有密码")
	}

	ok, err := pm.VerifyPassword("trader", "correct-horse-battery")
	if err != nil {
		t.Fatalf("验证密码失败: %v", err)
	}
	if !ok {
		t.Error("正确密码应验证通过")
	}

	ok, err = pm.VerifyPassword("trader", "wrong-password")
	if err != nil {
		t.Fatalf("验证密码失败: %v", err)
	}
	if ok {
		t.Error("错误密码不应验证通过")
	}
}

func TestPasswordManagerOverwrite(t *testing.T) {
	pm := newTestPasswordManager(t)

	if err := pm.SetPassword("trader", "first-password"); err != nil {
		t.Fatalf("设置密码失败: %v", err)
	}
	if err := pm.SetPassword("trader", "second-password"); err != nil {
		t.Fatalf("更新密码失败: %v", err)
	}

	if ok, _ := pm.VerifyPassword("trader", "first-password"); ok {
		t.Error("旧密码不应再验证通过")
	}
	if ok, _ := pm.VerifyPassword("trader", "second-password"); !ok {
		t.Error("新密码应验证通过")
	}
}

func TestPasswordManagerVerifyUnknownUser(t *testing.T) {
	pm := newTestPasswordManager(t)

	ok, err := pm.VerifyPassword("nobody", "whatever")
	if err != nil {
		t.Fatalf("验证不存在的用户不应报错: %v", err)
	}
	if ok {
		t.Error("不存在的用户不应验证通过")
	}
}
