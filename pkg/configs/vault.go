package configs

import (
	"github.com/spf13/viper"
)

const (
	DefaultVaultFileRoot = "data/files" // 默认文件仓库根目录
)

// VaultConfig 文件仓库配置. FileRoot 是所有用户子树的公共根，
// 每个 owner 对应其中一个一级子目录，路径解析永远被限制在该子树内.
type VaultConfig struct {
	FileRoot string `mapstructure:"file_root" rule:"required"`
}

// setDefaults 设置文件仓库配置的默认值.
func (c *VaultConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("vault.file_root", DefaultVaultFileRoot)
}
