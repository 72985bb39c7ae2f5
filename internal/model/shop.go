package model

// Shop 店铺状态常量
const (
	ShopStatusActive    = "active"    // 正常
	ShopStatusSuspended = "suspended" // 已封停，拒绝所有租户请求
)

// SlugReserved 保留 slug，注册时禁用
const SlugReserved = "platform"

// Shop 店铺（租户）
type Shop struct {
	BaseModel
	AuditMixin

	// 1. 核心身份
	// slug 创建后不可变，是租户路由的唯一标识
	// 规则: [a-z0-9-]{3,50}，保留词 platform 禁用
	Slug string `gorm:"size:50;uniqueIndex;not null"`
	Name string `gorm:"size:100;not null"`

	// 2. 品牌信息
	LogoUrl      string `gorm:"size:255"`
	ThemeColor   string `gorm:"size:20"`
	Announcement string `gorm:"type:text;comment:店铺公告"`

	// 3. 状态
	Status string `gorm:"size:20;index;default:'active'"`

	// 4. 关联关系

	// 商品数据 (Has Many)
	Products []Product `gorm:"foreignKey:ShopID"`

	// 权限关联
	// 获取该店铺的所有成员及其角色 (Has Many)
	Memberships []ShopMember `gorm:"foreignKey:ShopID"`
	// 获取该店铺的所有成员列表 (Many to Many, 忽略角色)
	Members []User `gorm:"many2many:shop_members;"`
}

// IsSuspended 店铺是否被封停
func (s *Shop) IsSuspended() bool {
	return s.Status == ShopStatusSuspended
}

func (Shop) TableName() string {
	return "shops"
}

// ==================== ShopMember 店铺成员 ====================

// 店铺内角色常量
const (
	ShopRoleAdmin   = "admin"   // 店铺管理员
	ShopRoleManager = "manager" // 店铺运营
	ShopRoleStaff   = "staff"   // 店铺员工
)

// 成员状态常量
const (
	MemberStatusActive   = "active"
	MemberStatusInactive = "inactive"
)

// ShopMember 定义用户和店铺的关联关系及权限
// GORM 自定义连接表 (Join Table)
type ShopMember struct {
	BaseModel
	AuditMixin
	// 联合唯一索引
	// 确保一个用户在一个店铺里只有一条记录
	UserID int64 `gorm:"index;uniqueIndex:idx_user_shop;not null"`
	ShopID int64 `gorm:"index;uniqueIndex:idx_user_shop;not null"`

	// 权限控制
	// 店铺内角色: admin, manager, staff，与 User.Role 互相独立
	Role string `gorm:"size:20;default:'staff'"`

	// 成员状态，inactive 的成员不参与授权判定
	Status string `gorm:"size:20;default:'active'"`

	// 关联对象 (Belongs To)
	User *User `gorm:"foreignKey:UserID"`
	Shop *Shop `gorm:"foreignKey:ShopID"`
}

// IsActive 成员是否有效
func (m *ShopMember) IsActive() bool {
	return m.Status == MemberStatusActive
}

func (ShopMember) TableName() string {
	return "shop_members"
}
