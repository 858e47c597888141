package model

// Record 归档记录（a_dis 表，一经写入不再变更）
// createtime 是采集方自带的时间标签，按原样存储，不做时间解析
type Record struct {
    ID         string `json:"id" gorm:"column:id;primaryKey;type:varchar(50)"`
    TypeName   string `json:"typename" gorm:"column:typename;type:varchar(255)"`
    UserName   string `json:"username" gorm:"column:username;type:varchar(255)"`
    CreateTime string `json:"createtime" gorm:"column:createtime;type:varchar(255)"`
    Content    string `json:"content" gorm:"column:content;type:text"`
    URL        string `json:"url" gorm:"column:url;type:text"`
}

func (Record) TableName() string { return "a_dis" }
