package userController

import (
	"learnhub/middleware"
	"learnhub/services/account"
	"learnhub/utils"
	validators "learnhub/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	Accounts *account.Service
}

func (h *Handler) SignUp(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*validators.SignUpRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	user, err := h.Accounts.SignUp(c.UserContext(), account.SignUpInput{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Phone:    reqData.Phone,
		Password: reqData.Password,
		Role:     reqData.Role,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully!", user)
}

func (h *Handler) SignIn(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*validators.SignInRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	session, err := h.Accounts.SignIn(c.UserContext(), reqData.Email, reqData.Password)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", session)
}

// UpdateUser lets users edit their own profile; admins may edit anyone.
func (h *Handler) UpdateUser(c *fiber.Ctx) error {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}
	if id != middleware.CurrentUserID(c) && middleware.CurrentRole(c) != middleware.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only update your own profile!", nil)
	}
	reqData, ok := c.Locals("validatedProfile").(*validators.ProfileRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	user, err := h.Accounts.UpdateProfile(c.UserContext(), id, account.ProfileUpdate{
		Name:   reqData.Name,
		Phone:  reqData.Phone,
		Avatar: reqData.Avatar,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", user)
}

func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}
	if err := h.Accounts.Delete(c.UserContext(), id); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully!", nil)
}

func (h *Handler) GetAllUsers(c *fiber.Ctx) error {
	page, err := h.Accounts.List(c.UserContext(), utils.PageFromQuery(c, 20))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", page)
}

func (h *Handler) GetUserDetails(c *fiber.Ctx) error {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}
	user, err := h.Accounts.Get(c.UserContext(), id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully!", user)
}

func (h *Handler) GetTeachers(c *fiber.Ctx) error {
	teachers, err := h.Accounts.Teachers(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Teachers fetched successfully!", teachers)
}
