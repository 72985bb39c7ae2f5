package model

// 全局角色常量
// 注意区分：这是平台级角色，ShopMember 里的是店铺内的角色
const (
	RoleAdmin    = "admin"    // 平台管理员
	RoleManager  = "manager"  // 平台运营
	RoleStaff    = "staff"    // 平台员工
	RoleCustomer = "customer" // 普通买家
)

// User 用户账号
// 身份认证托管在外部身份提供商，本表是身份与角色数据的本地镜像
type User struct {
	BaseModel
	// 基础信息
	// 邮箱统一小写存储，作为外部身份回落匹配键
	Email    string `gorm:"size:100;uniqueIndex;not null"`
	Password string `gorm:"size:255;not null"` // 哈希密码，仅本地兼容账号登录使用
	Nickname string `gorm:"size:100"`
	Avatar   string `gorm:"size:255"`

	// 外部身份提供商的 subject id
	// 首次见到已验证的外部凭证时回填/建档；本地账号为 NULL
	AuthSubject *string `gorm:"size:128;uniqueIndex"`

	// 平台级角色: admin, manager, staff, customer
	Role string `gorm:"size:20;default:'customer'"`

	// 不能挂 default 标签：GORM 会把带默认值字段的零值从 INSERT 里剔除，
	// false 就永远写不进去。所有创建路径显式赋值
	IsActive bool `gorm:"not null"`

	// 最近一次访问的店铺，授权通过后异步更新
	LastShopID int64 `gorm:"index;default:0"`

	// ==============================
	// 关联关系
	// ==============================

	// 方式 A: 快速查询用户所属的店铺 (忽略角色)
	Shops []Shop `gorm:"many2many:shop_members;"`

	// 方式 B: 查询用户在店铺的权限详情 (包含 Role + Status)
	Memberships []ShopMember `gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}
