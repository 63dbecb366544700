package dto

// PaginationRequest 分页查询参数
type PaginationRequest struct {
	Page     int `form:"page,default=1"       binding:"omitempty,min=1"`
	PageSize int `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// Offset 计算偏移量
func (p *PaginationRequest) Offset() int {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	return (p.Page - 1) * p.PageSize
}

// Limit 返回每页条数
func (p *PaginationRequest) Limit() int {
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	return p.PageSize
}
