package model

// Submission 未受信的入站提交，校验通过后转成 Record，本身不落库。
// 长度约束按字节数计（与数据库 varchar 限制对齐），校验实现见 service.Validator
type Submission struct {
    ID         string `json:"id" validate:"required"`
    TypeName   string `json:"typename"`
    UserName   string `json:"username"`
    CreateTime string `json:"createtime"`
    Content    string `json:"content"`
    URL        string `json:"url"`
}
