/*
 * @module api/controllers/response
 * @description 校验服务API统一响应信封：status为0表示成功、非0表示请求级问题；
 *              规则失败与规则错误不走信封状态位，作为Data负载返回
 * @architecture 分层架构 - API控制器层
 * @refs api/controllers/validation_controller.go, api/controllers/meta_controller.go
 */

package controllers

// APIResponse 统一API响应结构
type APIResponse struct {
	Status int         `json:"status" example:"0"`
	Msg    string      `json:"msg" example:"校验运行完成"`
	Data   interface{} `json:"data,omitempty"`
}

// PaginatedResponse 运行记录列表等分页端点的响应结构
type PaginatedResponse struct {
	Status int         `json:"status" example:"0"`
	Msg    string      `json:"msg" example:"获取运行列表成功"`
	Data   interface{} `json:"data"`
	Total  int64       `json:"total" example:"42"`
	Page   int         `json:"page" example:"1"`
	Size   int         `json:"size" example:"10"`
}
